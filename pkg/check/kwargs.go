package check

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/veristat-labs/veristat/pkg/dataset"
)

// DecodeKwargs decodes a kwargs mapping into a typed parameter struct.
// Decoding is weakly typed so suite authors can write `min_value: 0`
// where a float is expected.
func DecodeKwargs(checkType string, kwargs map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ExecErrorf(checkType, "build kwargs decoder: %v", err)
	}
	if err := dec.Decode(kwargs); err != nil {
		return ExecErrorf(checkType, "invalid kwargs: %v", err)
	}
	return nil
}

// RequireColumn resolves a named column, producing an ExecutionError when
// the kwargs omit the column or the dataset does not have it.
func RequireColumn(checkType string, ds *dataset.Dataset, name string) (*dataset.Column, error) {
	if name == "" {
		return nil, ExecErrorf(checkType, "kwargs missing required field %q", "column")
	}
	col, ok := ds.Column(name)
	if !ok {
		return nil, ExecErrorf(checkType, "column %q not found in dataset", name)
	}
	return col, nil
}
