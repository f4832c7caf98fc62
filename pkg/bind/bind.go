// Package bind decodes and validates an HTTP request body into a struct.
// JSON and HTML form submissions are both accepted.
package bind

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strconv"

	"github.com/shashiranjanraj/cafehub/config"
	"github.com/shashiranjanraj/cafehub/pkg/validate"
)

// maxBodyBytes returns the configured request body size limit (default 1 MB).
func maxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil || n <= 0 {
		return 1 << 20
	}
	return n
}

// Request decodes r into dest according to its Content-Type and runs
// validation. Form encodings go through Form, everything else through JSON.
func Request(r *http.Request, dest interface{}) (map[string]string, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return Form(r, dest)
	default:
		return JSON(r, dest)
	}
}

// JSON decodes r.Body as JSON into dest and runs validation.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return check(dest), nil
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// Form copies form values into the string fields of dest (and fields whose
// pointer implements encoding.TextUnmarshaler), matched by `form` tag or by
// json name, then runs validation. An absent field keeps its zero value,
// which is how unchecked checkboxes arrive.
func Form(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())
	if err := r.ParseMultipartForm(maxBodyBytes()); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, errors.New("bind: dest must be a pointer to a struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("form")
		if name == "" {
			name = validate.FieldName(field)
		}
		if _, present := r.Form[name]; !present {
			continue
		}
		raw := r.Form.Get(name)

		fv := rv.Field(i)
		if fv.Addr().Type().Implements(textUnmarshalerType) {
			if err := fv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
				return nil, fmt.Errorf("invalid form field %s: %w", name, err)
			}
			continue
		}
		if fv.Kind() == reflect.String {
			fv.SetString(raw)
		}
	}

	return check(dest), nil
}

func check(dest interface{}) map[string]string {
	errs := validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs
	}
	return nil
}
