package i18n

import (
	"fmt"
	"strings"
)

// Catalog retrieves default messages for issue codes. It is consulted only
// when a field declares no message of its own. params carries the check's
// structured parameters (for example "min" or "max").
type Catalog interface {
	Message(code string, params map[string]any) string
}

// English is the built-in dictionary Catalog.
var English Catalog = dict{
	"required":             "required field missing",
	"invalid_type":         "invalid type",
	"invalid_number":       "not a number",
	"too_short":            "must be at least {min} characters",
	"too_long":             "must be at most {max} characters",
	"too_small":            "must be at least {min}",
	"too_big":              "must be at most {max}",
	"out_of_range":         "must be between {min} and {max}",
	"pattern":              "does not match the expected pattern",
	"invalid_format":       "invalid format",
	"file_too_large":       "file must be at most {max} bytes",
	"invalid_content_type": "unsupported file type",
	"too_few_items":        "must have at least {min} items",
	"too_many_items":       "must have at most {max} items",
	"custom":               "invalid value",
}

// dict is a code -> template map. Templates reference params as {name}.
type dict map[string]string

func (d dict) Message(code string, params map[string]any) string {
	tpl, ok := d[code]
	if !ok {
		return code
	}
	return expand(tpl, params)
}

// Map builds a Catalog from code -> template pairs, falling back to English
// for codes it does not define.
func Map(templates map[string]string) Catalog {
	d := make(dict, len(templates))
	for k, v := range templates {
		d[k] = v
	}
	return fallback{primary: d, secondary: English}
}

type fallback struct {
	primary   dict
	secondary Catalog
}

func (f fallback) Message(code string, params map[string]any) string {
	if tpl, ok := f.primary[code]; ok {
		return expand(tpl, params)
	}
	return f.secondary.Message(code, params)
}

func expand(tpl string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(tpl, "{") {
		return tpl
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}
