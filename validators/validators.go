package validators

import (
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"strings"

	"afyaconnect_back_end_go/storage"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// MaxImageSize caps each testimonial image.
const MaxImageSize = 5 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors lists every failing field in declaration order.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, e := range fe {
		parts = append(parts, e.Field+" "+e.Message)
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) Map() map[string]string {
	out := make(map[string]string, len(fe))
	for _, e := range fe {
		out[e.Field] = e.Message
	}
	return out
}

func Required(field string) FieldErrors {
	return FieldErrors{{Field: field, Message: "is required"}}
}

func Invalid(field, message string) FieldErrors {
	return FieldErrors{{Field: field, Message: message}}
}

// Struct validates v against its validate tags. The returned error is
// FieldErrors when any field fails.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validation failed")
	}

	out := make(FieldErrors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Message: message(e)})
	}
	return out
}

// Image checks an optional uploaded file by its size and its sniffed
// content. A nil header passes.
func Image(field string, fh *multipart.FileHeader) *FieldError {
	if fh == nil {
		return nil
	}
	if fh.Size > MaxImageSize {
		return tooLarge(field)
	}
	file, err := fh.Open()
	if err != nil {
		return &FieldError{Field: field, Message: "could not be read"}
	}
	defer file.Close()
	return ImageData(field, file, fh.Size)
}

// ImageData checks size bytes of image data read from r.
func ImageData(field string, r io.Reader, size int64) *FieldError {
	if size > MaxImageSize {
		return tooLarge(field)
	}
	if _, err := storage.DetectImage(r); err != nil {
		return &FieldError{Field: field, Message: imageTypeMessage}
	}
	return nil
}

const imageTypeMessage = "must be a JPEG, PNG, GIF or WebP image"

func tooLarge(field string) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("must be at most %d MB", MaxImageSize>>20)}
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "number":
		return "must be a whole number"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "min", "gte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max", "lte":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("must have at most %s items", e.Param())
		}
		return "must be at most " + e.Param()
	case "gtefield":
		return "must not be lower than " + e.Param()
	default:
		return "is invalid"
	}
}
