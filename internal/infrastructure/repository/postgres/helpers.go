package postgres

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
)

// marshalJSON wraps sonic.Marshal with the error context every caller here
// wants; query builders pass the result straight through as a jsonb column
// value.
func marshalJSON(v any) ([]byte, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jsonb column: %w", err)
	}
	return raw, nil
}

func unmarshalJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal jsonb column: %w", err)
	}
	return nil
}

func stringSliceToAny(items []string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}

func stringSetToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func stringSliceToSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}
	return out
}
