package all

import (
	// Import all the converters so they register themselves
	_ "github.com/darianmavgo/mktable/converters/csv"
	_ "github.com/darianmavgo/mktable/converters/excel"
	_ "github.com/darianmavgo/mktable/converters/html"
	_ "github.com/darianmavgo/mktable/converters/json"
	_ "github.com/darianmavgo/mktable/converters/jsonl"
	_ "github.com/darianmavgo/mktable/converters/markdown"
	_ "github.com/darianmavgo/mktable/converters/txt"
	_ "github.com/darianmavgo/mktable/converters/zip"
)
