package util

func StringPtr(s string) *string { return &s }

func FloatPtr(f float64) *float64 { return &f }
