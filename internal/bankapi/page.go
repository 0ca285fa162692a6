package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// Page is the backend's paginated list envelope.
type Page[T any] struct {
	Content          []T   `json:"content"`
	Number           int   `json:"number"`
	Size             int   `json:"size"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage builds a page whose metadata is consistent with content. size is
// raised to len(content) when smaller.
func NewPage[T any](content []T, number, size int, totalElements int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	if size < len(content) {
		size = len(content)
	}
	if totalElements < int64(number*size+len(content)) {
		totalElements = int64(number*size + len(content))
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((totalElements + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:          content,
		Number:           number,
		Size:             size,
		TotalElements:    totalElements,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		First:            number == 0,
		Last:             totalPages == 0 || number == totalPages-1,
		Empty:            len(content) == 0,
	}
}

// Validate checks the envelope invariants.
func (p Page[T]) Validate() error {
	var errs []error
	if len(p.Content) != p.NumberOfElements {
		errs = append(errs, fmt.Errorf("numberOfElements %d does not match %d items", p.NumberOfElements, len(p.Content)))
	}
	if p.NumberOfElements > p.Size {
		errs = append(errs, fmt.Errorf("numberOfElements %d exceeds size %d", p.NumberOfElements, p.Size))
	}
	if p.First != (p.Number == 0) {
		errs = append(errs, fmt.Errorf("first=%t inconsistent with number %d", p.First, p.Number))
	}
	if p.TotalPages > 0 && p.Last != (p.Number == p.TotalPages-1) {
		errs = append(errs, fmt.Errorf("last=%t inconsistent with number %d of %d pages", p.Last, p.Number, p.TotalPages))
	}
	if p.Empty != (len(p.Content) == 0) {
		errs = append(errs, fmt.Errorf("empty=%t inconsistent with %d items", p.Empty, len(p.Content)))
	}
	return errors.Join(errs...)
}

func (p *Page[T]) check() error {
	return p.Validate()
}

// PageRequest selects a 0-based page. Zero Size leaves the backend default.
type PageRequest struct {
	Page int
	Size int
}

func (p PageRequest) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	}
	return v
}

// decodePage accepts either a Page envelope or a bare JSON array, which is
// treated as one full page.
func decodePage[T any](resp *Response) (Page[T], error) {
	if resp.IsJSON() && bytes.HasPrefix(bytes.TrimSpace(resp.Body), []byte("[")) {
		var items []T
		if err := json.Unmarshal(resp.Body, &items); err != nil {
			return Page[T]{}, decodeError(resp.StatusCode, "malformed response from server", err)
		}
		return NewPage(items, 0, len(items), int64(len(items))), nil
	}
	return decode[Page[T]](resp)
}

func callPage[T any](ctx context.Context, c *Client, r Request) (Page[T], error) {
	resp, err := c.Do(ctx, r)
	if err != nil {
		return Page[T]{}, err
	}
	return decodePage[T](resp)
}
