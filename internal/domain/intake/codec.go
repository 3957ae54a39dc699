package intake

import (
	"time"

	"github.com/go-faster/jx"
)

// Timestamps persist as ISO-8601 / RFC 3339 instants. A missing image is
// written as null, matching what the storefront originally stored.

func encodeRecords(records []Record) []byte {
	var e jx.Encoder
	e.ArrStart()
	for _, r := range records {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(r.ID)
		e.FieldStart("message")
		e.Str(r.Message)
		e.FieldStart("image")
		if r.Image == "" {
			e.Null()
		} else {
			e.Str(r.Image)
		}
		e.FieldStart("timestamp")
		e.Str(r.Timestamp.Format(time.RFC3339Nano))
		e.ObjEnd()
	}
	e.ArrEnd()
	return e.Bytes()
}

func decodeRecords(data []byte) ([]Record, error) {
	var records []Record
	d := jx.DecodeBytes(data)
	err := d.Arr(func(d *jx.Decoder) error {
		var r Record
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "id":
				v, err := d.Str()
				r.ID = v
				return err
			case "message":
				v, err := d.Str()
				r.Message = v
				return err
			case "image":
				if d.Next() == jx.Null {
					return d.Null()
				}
				v, err := d.Str()
				r.Image = v
				return err
			case "timestamp":
				v, err := d.Str()
				if err != nil {
					return err
				}
				r.Timestamp, err = time.Parse(time.RFC3339Nano, v)
				return err
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
