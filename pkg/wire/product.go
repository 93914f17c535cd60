package wire

import (
	"fmt"
	"io"
)

// ProductKind tags which kind of device answered (base-spec §3 "Product").
// Its values are the wire discriminator bytes themselves (0x10/0x11); a
// decode of any other byte fails naming the byte actually observed.
type ProductKind uint8

const (
	ProductBrain      ProductKind = 0x10
	ProductController ProductKind = 0x11
)

// BrainFlags currently has no defined bits (base-spec §3: "all bits
// currently unused"); it is kept as a distinct type, not a bare byte, so a
// future bit gets a home without changing Product's shape.
type BrainFlags uint8

// ControllerFlags exposes the two defined bits of a controller's flag byte.
type ControllerFlags uint8

// Connected reports bit 0.
func (f ControllerFlags) Connected() bool { return f&0x01 != 0 }

// Wireless reports bit 1.
func (f ControllerFlags) Wireless() bool { return f&0x02 != 0 }

// Product is the tagged union of the two device kinds.
type Product struct {
	Kind            ProductKind
	Brain           BrainFlags
	Controller      ControllerFlags
}

func (p Product) String() string {
	switch p.Kind {
	case ProductBrain:
		return "brain"
	case ProductController:
		return fmt.Sprintf("controller (connected: %t; wireless: %t)", p.Controller.Connected(), p.Controller.Wireless())
	default:
		return fmt.Sprintf("unknown product 0x%02x", uint8(p.Kind))
	}
}

// Encode writes the discriminator byte followed by the variant's flag byte.
func (p Product) Encode(w io.Writer) error {
	if err := WriteU8(w, uint8(p.Kind)); err != nil {
		return err
	}
	switch p.Kind {
	case ProductBrain:
		return WriteU8(w, uint8(p.Brain))
	case ProductController:
		return WriteU8(w, uint8(p.Controller))
	default:
		return fmt.Errorf("encoding product: unrecognized kind 0x%02x", uint8(p.Kind))
	}
}

// DecodeProduct reads a discriminator byte and its variant's flag byte.
func DecodeProduct(r io.Reader) (Product, error) {
	tag, err := ReadU8(r, "product discriminator")
	if err != nil {
		return Product{}, err
	}
	flags, err := ReadU8(r, "product flags")
	if err != nil {
		return Product{}, err
	}
	switch ProductKind(tag) {
	case ProductBrain:
		return Product{Kind: ProductBrain, Brain: BrainFlags(flags)}, nil
	case ProductController:
		return Product{Kind: ProductController, Controller: ControllerFlags(flags)}, nil
	default:
		return Product{}, unrecognizedDiscriminant("product", tag)
	}
}
