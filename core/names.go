// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Names is an ordered, possibly single-valued list of names.
//
// Inspector names and workplaces arrive either as a scalar string or as an
// array of strings. Names accepts both shapes when decoding and always holds
// an ordered slice afterwards; a scalar becomes a one-element slice.
type Names []string

// NamesOf builds Names from the given values.
func NamesOf(values ...string) Names {
	return Names(values)
}

// UnmarshalJSON accepts a JSON string, an array of strings or null.
func (n *Names) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Names{s}
		return nil
	case '[':
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*n = Names(values)
		return nil
	default:
		return fmt.Errorf("%w: expected string or array, got %s", ErrInvalidNames, string(data))
	}
}

// Join renders the names as one string separated by sep.
func (n Names) Join(sep string) string {
	return strings.Join(n, sep)
}

// String renders the names the way they are displayed: comma separated.
func (n Names) String() string {
	return n.Join(", ")
}

// IsEmpty reports whether no non-blank name is present.
func (n Names) IsEmpty() bool {
	for _, name := range n {
		if strings.TrimSpace(name) != "" {
			return false
		}
	}
	return true
}
