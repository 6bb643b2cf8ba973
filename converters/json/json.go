// Package json registers the "json" driver: a top-level array of objects, each
// object one record. Nested objects and lists are flattened into columns.
package json

import (
	"context"
	"log"

	"github.com/darianmavgo/mktable/converters"
	"github.com/darianmavgo/mktable/converters/common"
	"github.com/darianmavgo/mktable/converters/flatten"
)

func init() {
	converters.Register("json", &jsonDriver{})
}

type jsonDriver struct{}

func (d *jsonDriver) Label() string {
	return "JSON"
}

func (d *jsonDriver) Extensions() []string {
	return []string{".json"}
}

// Parse implements common.Driver.
func (d *jsonDriver) Parse(ctx context.Context, data []byte, config *common.ConversionConfig) (*common.Table, error) {
	text, err := common.DecodeText(data)
	if err != nil {
		return nil, err
	}
	records, err := ReadArray(text)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, common.WrapError(common.KindInternal, err)
	}
	if config != nil && config.Verbose {
		log.Printf("[MKTABLE] Decoded %d JSON records", len(records))
	}
	return flatten.ToTable(records), nil
}

// ReadArray decodes data as a non-empty JSON array whose elements are all
// objects, preserving key order.
func ReadArray(data []byte) ([]any, error) {
	doc, err := flatten.ParseDocument(data)
	if err != nil {
		return nil, common.NewError(common.KindMalformedInput, "invalid JSON: %v", err)
	}

	list, ok := doc.([]any)
	if !ok {
		return nil, common.NewError(common.KindUnsupportedShape, "JSON must be an array of objects")
	}
	if len(list) == 0 {
		return nil, common.NewError(common.KindUnsupportedShape, "JSON array is empty")
	}
	for i, item := range list {
		if _, ok := item.(*flatten.Object); !ok {
			return nil, common.NewError(common.KindUnsupportedShape, "JSON must be an array of objects (element %d is not an object)", i)
		}
	}
	return list, nil
}
