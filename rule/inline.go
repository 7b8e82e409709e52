/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package rule

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// ExpandInline expands inline segments in a table name pattern.
//
//	t_order_${0..2}     -> t_order_0, t_order_1, t_order_2
//	t_${a,b}_${0..1}    -> t_a_0, t_a_1, t_b_0, t_b_1
//
// A pattern without segments expands to itself.
func ExpandInline(pattern string) ([]string, error) {
	start := strings.Index(pattern, "${")
	if start < 0 {
		return []string{pattern}, nil
	}
	end := strings.Index(pattern[start:], "}")
	if end < 0 {
		return nil, fmt.Errorf("inline expression %q: missing closing '}'", pattern)
	}
	end += start
	choices, err := expandSegment(pattern[start+2 : end])
	if err != nil {
		return nil, fmt.Errorf("inline expression %q: %w", pattern, err)
	}
	rests, err := ExpandInline(pattern[end+1:])
	if err != nil {
		return nil, err
	}
	prefix := pattern[:start]
	result := make([]string, 0, len(choices)*len(rests))
	for _, choice := range choices {
		for _, rest := range rests {
			result = append(result, prefix+choice+rest)
		}
	}
	return result, nil
}

func expandSegment(segment string) ([]string, error) {
	if from, to, ok := strings.Cut(segment, ".."); ok {
		lower, err := cast.ToIntE(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("range start %q is not a number", from)
		}
		upper, err := cast.ToIntE(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("range end %q is not a number", to)
		}
		if upper < lower {
			return nil, fmt.Errorf("range %d..%d is empty", lower, upper)
		}
		result := make([]string, 0, upper-lower+1)
		for i := lower; i <= upper; i++ {
			result = append(result, cast.ToString(i))
		}
		return result, nil
	}
	var result []string
	for _, each := range strings.Split(segment, ",") {
		each = strings.Trim(strings.TrimSpace(each), `'"`)
		if each == "" {
			return nil, fmt.Errorf("empty choice in %q", segment)
		}
		result = append(result, each)
	}
	return result, nil
}
