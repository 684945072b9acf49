package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 1000
	ChatHistorySize = 100
)
