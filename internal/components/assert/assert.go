package assert

// NotNil panics when a required collaborator is missing at construction time.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
}

