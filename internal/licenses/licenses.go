package licenses

import _ "embed"

//go:embed embedded/THIRD_PARTY_NOTICES.md
var noticesText string

//go:embed embedded/THIRD_PARTY_LICENSES_FULL.txt
var fullText string

func NoticesText() string {
	return noticesText
}

func FullText() string {
	return fullText
}
