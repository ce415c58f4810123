package validators

import (
	"mime/multipart"

	"afyaconnect_back_end_go/models"
)

// Testimonial validates a normalized submission together with its optional
// images and reports every failing field at once.
func Testimonial(in models.TestimonialInput, before, after *multipart.FileHeader) error {
	var out FieldErrors
	if err := Struct(in); err != nil {
		fe, ok := err.(FieldErrors)
		if !ok {
			return err
		}
		out = append(out, fe...)
	}
	if e := Image("beforeImage", before); e != nil {
		out = append(out, *e)
	}
	if e := Image("afterImage", after); e != nil {
		out = append(out, *e)
	}
	if len(out) > 0 {
		return out
	}
	return nil
}
