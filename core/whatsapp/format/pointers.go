package format

// IntPtr returns a pointer to a copy of v.
func IntPtr(v int) *int {
	return &v
}

// FloatPtr returns a pointer to a copy of v, or nil for a nil input.
func FloatPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
