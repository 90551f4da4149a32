package binder

import "net/http"

// Path creates a path parameter binder using extractor to read each
// `path:"name"` parameter. With chi:
//
//	binder.Path(chi.URLParam)
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values, err := pathValues(r, v, extractor)
		if err != nil {
			return err
		}
		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}

// pathValues collects the path parameters referenced by v's struct tags.
func pathValues(r *http.Request, v any, extractor func(*http.Request, string) string) (map[string][]string, error) {
	fields, err := taggedFields(v, "path", ErrFailedToParsePath)
	if err != nil {
		return nil, err
	}
	values := make(map[string][]string, len(fields))
	for _, name := range fields {
		if value := extractor(r, name); value != "" {
			values[name] = []string{value}
		}
	}
	return values, nil
}
