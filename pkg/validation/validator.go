package validation

import (
	"encoding/json"
	"math"
	"mime/multipart"
	"sort"
	"strconv"
	"strings"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// Source tells the caller where a parameter is read from.
type Source string

const (
	SourceBody  Source = "body"
	SourceQuery Source = "query"
	SourceFiles Source = "files"
)

// Type is the expected shape of a raw parameter.
type Type string

const (
	TypeString Type = "string"
	TypeNumber Type = "number"
	TypeFile   Type = "file"
)

// Descriptor declares how one request parameter is checked and normalized.
// Zero bounds are treated as unset.
type Descriptor struct {
	Name   string
	Source Source
	Type   Type

	MinLength int
	MaxLength int

	Min         *float64
	Max         *float64
	IntegerOnly bool

	// Enum remaps accepted raw strings to their normalized value.
	Enum map[string]string

	Required bool

	MaxBytes     int64
	AllowedTypes []string
}

// Raw is the unchecked value found at the descriptor's source.
type Raw struct {
	Present bool
	Value   any
	File    *multipart.FileHeader
}

// FieldError describes why a parameter was rejected.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Result is the outcome of Check. Value holds the normalized value only when Valid.
type Result struct {
	Value   any
	Valid   bool
	Present bool
	Err     *FieldError
}

func (r Result) Text() string {
	s, _ := r.Value.(string)
	return s
}

func (r Result) Float() float64 {
	switch v := r.Value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func (r Result) Int() int {
	switch v := r.Value.(type) {
	case int:
		return v
	case float64:
		return saturatedInt(v)
	}
	return 0
}

// saturatedInt truncates n, clamping values outside the int range.
func saturatedInt(n float64) int {
	switch {
	case n >= float64(math.MaxInt):
		return math.MaxInt
	case n <= float64(math.MinInt):
		return math.MinInt
	}
	return int(n)
}

func (r Result) File() *multipart.FileHeader {
	fh, _ := r.Value.(*multipart.FileHeader)
	return fh
}

// Blocks reports whether a blocking caller must reject the request:
// an invalid value that was sent, or a required value that is missing.
func (r Result) Blocks(d Descriptor) bool {
	return !r.Valid && (r.Present || d.Required)
}

var validate = validator.New()

// Check validates raw against d. It has no side effects.
func Check(d Descriptor, raw Raw) Result {
	switch d.Type {
	case TypeString:
		return checkString(d, raw)
	case TypeNumber:
		return checkNumber(d, raw)
	case TypeFile:
		return checkFile(d, raw)
	default:
		return reject(d, raw.Present, constants.ValidationType)
	}
}

func checkString(d Descriptor, raw Raw) Result {
	if !raw.Present || raw.Value == nil {
		return reject(d, false, constants.ValidationRequired)
	}

	s, ok := raw.Value.(string)
	if !ok {
		return reject(d, true, constants.ValidationType)
	}

	var tags []string
	if d.MinLength > 0 {
		tags = append(tags, "min="+strconv.Itoa(d.MinLength))
	}
	if d.MaxLength > 0 {
		tags = append(tags, "max="+strconv.Itoa(d.MaxLength))
	}
	if d.Enum != nil {
		tags = append(tags, "oneof="+strings.Join(enumKeys(d.Enum), " "))
	}

	if err := validate.Var(s, strings.Join(tags, ",")); err != nil {
		return reject(d, true, failedTag(err))
	}

	if d.Enum != nil {
		mapped, ok := d.Enum[s]
		if !ok {
			return reject(d, true, constants.ValidationEnum)
		}
		return Result{Value: mapped, Valid: true, Present: true}
	}

	return Result{Value: s, Valid: true, Present: true}
}

func checkNumber(d Descriptor, raw Raw) Result {
	if !raw.Present || raw.Value == nil {
		return reject(d, false, constants.ValidationRequired)
	}

	text, ok := numberText(raw.Value)
	if !ok {
		return reject(d, true, constants.ValidationType)
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return reject(d, true, constants.ValidationType)
	}

	var tags []string
	if d.Min != nil {
		tags = append(tags, "gte="+formatFloat(*d.Min))
	}
	if d.Max != nil {
		tags = append(tags, "lte="+formatFloat(*d.Max))
	}
	if err := validate.Var(n, strings.Join(tags, ",")); err != nil {
		return reject(d, true, failedTag(err))
	}

	if d.IntegerOnly {
		if n != math.Trunc(n) {
			return reject(d, true, constants.ValidationInteger)
		}
		return Result{Value: saturatedInt(n), Valid: true, Present: true}
	}

	return Result{Value: n, Valid: true, Present: true}
}

func checkFile(d Descriptor, raw Raw) Result {
	if raw.File == nil {
		return reject(d, false, constants.ValidationRequired)
	}

	if d.MaxBytes > 0 && raw.File.Size > d.MaxBytes {
		return reject(d, true, constants.ValidationSize)
	}

	if len(d.AllowedTypes) > 0 {
		f, err := raw.File.Open()
		if err != nil {
			return reject(d, true, constants.ValidationMedia)
		}
		mime, err := mimetype.DetectReader(f)
		f.Close()
		if err != nil || !allowed(mime, d.AllowedTypes) {
			return reject(d, true, constants.ValidationMedia)
		}
	}

	return Result{Value: raw.File, Valid: true, Present: true}
}

func reject(d Descriptor, present bool, tag string) Result {
	return Result{
		Present: present,
		Err: &FieldError{
			Field:   d.Name,
			Tag:     tag,
			Message: Message(d, tag),
		},
	}
}

// numberText renders the raw value in textual form before parsing.
func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case json.Number:
		return n.String(), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	default:
		return "", false
	}
}

func failedTag(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		switch errs[0].Tag() {
		case "min", "gte":
			return constants.ValidationMin
		case "max", "lte":
			return constants.ValidationMax
		case "oneof":
			return constants.ValidationEnum
		}
		return errs[0].Tag()
	}
	return constants.ValidationType
}

func allowed(mime *mimetype.MIME, types []string) bool {
	for _, t := range types {
		if mime.Is(t) {
			return true
		}
	}
	return false
}

func enumKeys(enum map[string]string) []string {
	keys := make([]string, 0, len(enum))
	for k := range enum {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Float returns a pointer for Descriptor bounds.
func Float(f float64) *float64 {
	return &f
}
