package cart

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/aarna-atelier/storefront-api/internal/domain/catalog"
)

// Line items persist as flattened product snapshots plus qty and color,
// matching the shape earlier storefront builds wrote, so existing persisted
// carts keep loading.

func encodeItems(items []LineItem) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, li := range items {
		p := li.Product
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
		e.FieldStart("qty")
		e.Int(li.Quantity)
		e.FieldStart("color")
		e.Str(li.Variant)
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeItems(data []byte) ([]LineItem, error) {
	var items []LineItem
	d := jx.DecodeBytes(data)
	err := d.Arr(func(d *jx.Decoder) error {
		var (
			p  catalog.Product
			li LineItem
		)
		li.Quantity = 1
		if err := d.Obj(func(d *jx.Decoder, key string) error {
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
			case "qty":
				v, err := d.Int()
				li.Quantity = v
				return err
			case "color":
				v, err := d.Str()
				li.Variant = v
				return err
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		li.Product = p
		items = append(items, li)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
