package book

import (
	"html"
	"strings"
	"unicode/utf8"

	"bookmood/internal/httpx"
	"bookmood/internal/platform/aladin"
)

const (
	DefaultCoverURL  = "/static/images/default-cover.png"
	DefaultPageCount = 300
	MinPageCount     = 80
	MaxPageCount     = 1200
	defaultGenre     = "기타"
	wonPerPage       = 50
)

// pageHints maps category keywords to a typical page count. First match wins.
// Single-rune keywords only match a whole path segment.
var pageHints = []struct {
	keyword string
	pages   int
}{
	{"유아", 40},
	{"어린이", 120},
	{"만화", 180},
	{"수험서", 600},
	{"대학교재", 640},
	{"컴퓨터", 520},
	{"소설", 340},
	{"에세이", 240},
	{"시", 140},
	{"자기계발", 280},
	{"경제경영", 320},
	{"인문", 360},
	{"역사", 420},
	{"과학", 380},
}

// FromItem maps a catalog item to the cached shape and fills the gaps the
// catalog tends to leave.
func FromItem(item aladin.Item) External {
	isbn13 := strings.TrimSpace(item.ISBN13)
	isbn10 := strings.TrimSpace(item.ISBN)
	if isbn13 == "" {
		if converted, ok := ISBN10To13(isbn10); ok {
			isbn13 = converted
		}
	}

	b := External{
		ISBN13:        isbn13,
		ISBN10:        isbn10,
		ItemID:        item.ItemID,
		Title:         html.UnescapeString(strings.TrimSpace(item.Title)),
		Author:        html.UnescapeString(strings.TrimSpace(item.Author)),
		Publisher:     html.UnescapeString(strings.TrimSpace(item.Publisher)),
		PubDate:       item.PubDate,
		Summary:       html.UnescapeString(strings.TrimSpace(item.Description)),
		PriceSales:    item.PriceSales,
		PriceStandard: item.PriceStandard,
		ReviewRank:    item.CustomerReviewRank,
		CoverURL:      strings.TrimSpace(item.Cover),
		CategoryID:    item.CategoryID,
		CategoryName:  item.CategoryName,
		Genre:         NormalizeGenre(item.CategoryName),
		Link:          item.Link,
		Raw:           item.Raw,
	}
	if b.CoverURL == "" {
		b.CoverURL = DefaultCoverURL
	}

	if item.SubInfo.ItemPage > 0 {
		b.PageCount = item.SubInfo.ItemPage
	} else {
		price := item.PriceStandard
		if price <= 0 {
			price = item.PriceSales
		}
		b.PageCount = EstimatePageCount(item.CategoryName, price)
		b.PageEstimated = true
	}
	return b
}

// NormalizeGenre returns the second segment of an "A>B>C" category path, or
// the first when there is only one.
func NormalizeGenre(categoryName string) string {
	var parts []string
	for _, p := range strings.Split(categoryName, ">") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	switch len(parts) {
	case 0:
		return defaultGenre
	case 1:
		return parts[0]
	default:
		return parts[1]
	}
}

// EstimatePageCount guesses a page count from category keywords and list
// price. The result is a multiple of ten within [MinPageCount, MaxPageCount].
func EstimatePageCount(categoryName string, price int) int {
	hint := 0
	segments := strings.FieldsFunc(categoryName, func(r rune) bool { return r == '>' || r == '/' })
	for _, h := range pageHints {
		if categoryHas(categoryName, segments, h.keyword) {
			hint = h.pages
			break
		}
	}

	var pages int
	switch {
	case hint > 0 && price > 0:
		pages = (hint + price/wonPerPage) / 2
	case hint > 0:
		pages = hint
	case price > 0:
		pages = price / wonPerPage
	default:
		pages = DefaultPageCount
	}

	pages = (pages + 5) / 10 * 10
	if pages < MinPageCount {
		return MinPageCount
	}
	if pages > MaxPageCount {
		return MaxPageCount
	}
	return pages
}

// ISBN10To13 converts a valid ISBN-10 to its 978-prefixed ISBN-13.
func ISBN10To13(isbn10 string) (string, bool) {
	s := strings.ToUpper(httpx.NormalizeISBN(isbn10))
	if len(s) != 10 {
		return "", false
	}
	sum := 0
	for i, c := range s {
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c == 'X' && i == 9:
			d = 10
		default:
			return "", false
		}
		sum += d * (10 - i)
	}
	if sum%11 != 0 {
		return "", false
	}

	body := "978" + s[:9]
	total := 0
	for i, c := range body {
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		total += d
	}
	check := (10 - total%10) % 10
	return body + string(rune('0'+check)), true
}

// NormalizeISBN13 accepts an ISBN-13 or ISBN-10 with optional hyphens.
func NormalizeISBN13(s string) (string, error) {
	s = httpx.NormalizeISBN(s)
	if len(s) == 10 {
		converted, ok := ISBN10To13(s)
		if !ok {
			return "", ErrInvalidISBN
		}
		return converted, nil
	}
	if !httpx.IsISBN13(s) {
		return "", ErrInvalidISBN
	}
	return s, nil
}

func categoryHas(categoryName string, segments []string, keyword string) bool {
	if utf8.RuneCountInString(keyword) > 1 {
		return strings.Contains(categoryName, keyword)
	}
	for _, seg := range segments {
		if strings.TrimSpace(seg) == keyword {
			return true
		}
	}
	return false
}
