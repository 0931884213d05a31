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
	"testing"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "BTC", "BTC", false},
		{"lowercase", "hype", "HYPE", false},
		{"whitespace", "  eth  ", "ETH", false},
		{"digits", "1INCH", "1INCH", false},
		{"max length", "ABCDEFGHIJ", "ABCDEFGHIJ", false},
		{"empty", "", "", true},
		{"only spaces", "   ", "", true},
		{"too short", "X", "", true},
		{"too long", "ABCDEFGHIJK", "", true},
		{"punctuation", "BTC-USD", "", true},
		{"inner space", "BT C", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeSymbol(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSubjectsContains(t *testing.T) {
	s := Subjects{"BTC", "ETH"}
	if !s.Contains("BTC") {
		t.Error(`Contains("BTC") = false`)
	}
	if s.Contains("btc") {
		t.Error(`Contains is case sensitive by contract, got true for "btc"`)
	}
	if s.Contains("SOL") {
		t.Error(`Contains("SOL") = true`)
	}
}
