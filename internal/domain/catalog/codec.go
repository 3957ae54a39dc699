package catalog

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// StoreKey is the kv key holding the serialized catalog cache.
const StoreKey = "catalog"

// EncodeProducts serializes products for the kv catalog cache.
func EncodeProducts(products []Product) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, p := range products {
		encodeProduct(&e, p)
	}
	e.ArrEnd()
	return e.Bytes()
}

func encodeProduct(e *jx.Encoder, p Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Num(jx.Num(p.Price.String()))
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("colors")
	e.ArrStart()
	for _, v := range p.Variants {
		e.Str(v)
	}
	e.ArrEnd()
	e.ObjEnd()
}

// DecodeProducts parses a serialized catalog cache.
func DecodeProducts(data []byte) ([]Product, error) {
	var products []Product
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	return products, nil
}

func decodeProduct(d *jx.Decoder) (Product, error) {
	var p Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			p.ID = v
			return err
		case "name":
			v, err := d.Str()
			p.Name = v
			return err
		case "price":
			n, err := d.Num()
			if err != nil {
				return err
			}
			p.Price, err = decimal.NewFromString(n.String())
			return err
		case "image":
			v, err := d.Str()
			p.Image = v
			return err
		case "colors":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				if err != nil {
					return err
				}
				p.Variants = append(p.Variants, v)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	return p, err
}
