// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package upload

import (
	"fmt"
	"strings"

	"github.com/jeranaias/askdesk/internal/client"
)

// ParseFields turns "key=value" pairs into form fields. Blank entries are
// skipped; later keys win. The file field name is reserved.
func ParseFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q: want key=value", p)
		}
		if k == client.FileField {
			return nil, fmt.Errorf("invalid field %q: %q is reserved for the file", p, k)
		}
		fields[k] = strings.TrimSpace(v)
	}
	return fields, nil
}

// ParseFieldList parses a comma-separated "k=v, k2=v2" list.
func ParseFieldList(s string) (map[string]string, error) {
	return ParseFields(strings.Split(s, ","))
}
