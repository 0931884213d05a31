// Copyright 2025 Quantrace Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// symbolPattern: 2-10 alphanumeric characters after upper-casing.
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// NormalizeSymbol trims and upper-cases a raw symbol, then validates it.
func NormalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" {
		return "", fmt.Errorf("symbol is empty")
	}
	if !symbolPattern.MatchString(symbol) {
		return "", fmt.Errorf("symbol %q must be 2-10 alphanumeric characters", symbol)
	}
	return symbol, nil
}

// Subjects is the set of symbols an execution analyzes, persisted as a JSON
// array.
type Subjects []string

// Value implements driver.Valuer.
func (s Subjects) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *Subjects) Scan(value any) error {
	return scanJSON(value, s, func() { *s = Subjects{} })
}

// Contains reports whether symbol is one of the subjects.
func (s Subjects) Contains(symbol string) bool {
	for _, v := range s {
		if v == symbol {
			return true
		}
	}
	return false
}
