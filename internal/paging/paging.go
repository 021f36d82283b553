// Package paging normalizes the three vendor paging idioms (offset,
// page number, opaque token) into one opaque string cursor. Callers only
// inspect HasMore on the resulting page; the cursor encoding stays
// private to the adapter that produced it.
package paging

import (
	"fmt"
	"strconv"
)

// Offset decodes an offset cursor. An empty cursor means offset 0.
func Offset(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(cursor)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("invalid offset cursor %q", cursor)
	}
	return offset, nil
}

// NextOffset computes the follow-up cursor for offset-based vendors.
// hasMore is offset+pageSize < total.
func NextOffset(offset, pageSize, total int) (cursor string, hasMore bool) {
	next := offset + pageSize
	if next >= total {
		return "", false
	}
	return strconv.Itoa(next), true
}

// Page decodes a page-number cursor. An empty cursor means page 1.
func Page(cursor string) (int, error) {
	if cursor == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(cursor)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page cursor %q", cursor)
	}
	return page, nil
}

// NextPage computes the follow-up cursor for page-number vendors.
// hasMore is page < lastPage.
func NextPage(page, lastPage int) (cursor string, hasMore bool) {
	if page >= lastPage {
		return "", false
	}
	return strconv.Itoa(page + 1), true
}

// Token passes a vendor-issued opaque token through unchanged.
// hasMore is token != "".
func Token(token string) (cursor string, hasMore bool) {
	return token, token != ""
}
