package application

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	repo "github.com/oksasatya/go-user-resource-api/internal/domain/repository"
)

// ExportUsers streams every user to w as newline-delimited JSON, walking the
// store in id order pageSize rows at a time. It returns the number of rows written.
func ExportUsers(ctx context.Context, users repo.UserRepository, w io.Writer, pageSize int) (int, error) {
	if pageSize <= 0 {
		pageSize = 500
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	written := 0
	for offset := 0; ; offset += pageSize {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		page, _, err := users.List(ctx, pageSize, offset)
		if err != nil {
			return written, fmt.Errorf("list users at offset %d: %w", offset, err)
		}
		for i := range page {
			page[i].Password = ""
			if err := enc.Encode(&page[i]); err != nil {
				return written, err
			}
			written++
		}
		if len(page) < pageSize {
			break
		}
	}
	return written, bw.Flush()
}
