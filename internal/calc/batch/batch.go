package batch

import (
	"Aeolus/internal/calc/wind"
)

// Calculator evaluates one input set.
type Calculator func(wind.RawInput) (wind.Result, error)

// With binds opts to wind.Calculate.
func With(opts wind.Options) Calculator {
	return func(raw wind.RawInput) (wind.Result, error) { return wind.Calculate(raw, opts) }
}

type Input struct {
	Items []wind.RawInput `json:"items"`
}

// Item carries either the result or the error of input Index.
type Item struct {
	Index  int           `json:"index"`
	Input  wind.RawInput `json:"input"`
	Result *wind.Result  `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
	Err    error         `json:"-"`
}

type BatchResult struct {
	Items  []Item `json:"items"`
	OK     int    `json:"ok"`
	Failed int    `json:"failed"`
}

// Calculate evaluates every input. A failing item is reported in place and
// never stops the batch.
func Calculate(calc Calculator, inputs []wind.RawInput) BatchResult {
	out := BatchResult{Items: make([]Item, 0, len(inputs))}
	for i, raw := range inputs {
		item := Item{Index: i, Input: raw}
		res, err := calc(raw)
		if err != nil {
			item.Err, item.Error = err, err.Error()
			out.Failed++
		} else {
			item.Result = &res
			out.OK++
		}
		out.Items = append(out.Items, item)
	}
	return out
}
