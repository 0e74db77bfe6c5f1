package changes

import (
	"fmt"
	"strings"
)

// Result is a word-level diff. Changes holds "+ word" and "- word" entries
// in replay order.
type Result struct {
	Added   int      `json:"added"`
	Removed int      `json:"removed"`
	Changes []string `json:"changes"`
}

// Diff aligns the whitespace tokens of before and after on their longest
// common subsequence. Cost is O(n*m), so callers diff section-sized text.
func Diff(before, after string) Result {
	b := strings.Fields(before)
	a := strings.Fields(after)
	lcs := longestCommonSubsequence(b, a)

	res := Result{Changes: []string{}}
	i, j, k := 0, 0, 0
replay:
	for i < len(b) || j < len(a) {
		common := k < len(lcs)
		switch {
		case common && i < len(b) && j < len(a) && b[i] == lcs[k] && a[j] == lcs[k]:
			i++
			j++
			k++
		case j < len(a) && (!common || a[j] != lcs[k]):
			res.Changes = append(res.Changes, "+ "+a[j])
			res.Added++
			j++
		case i < len(b) && (!common || b[i] != lcs[k]):
			res.Changes = append(res.Changes, "- "+b[i])
			res.Removed++
			i++
		default:
			break replay
		}
	}
	return res
}

func longestCommonSubsequence(x, y []string) []string {
	n, m := len(x), len(y)
	if n == 0 || m == 0 {
		return nil
	}
	width := m + 1
	dp := make([]int, (n+1)*width)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if x[i-1] == y[j-1] {
				dp[i*width+j] = dp[(i-1)*width+j-1] + 1
			} else {
				dp[i*width+j] = max(dp[(i-1)*width+j], dp[i*width+j-1])
			}
		}
	}

	out := make([]string, dp[n*width+m])
	k := len(out) - 1
	for i, j := n, m; i > 0 && j > 0; {
		switch {
		case x[i-1] == y[j-1]:
			out[k] = x[i-1]
			k--
			i--
			j--
		case dp[(i-1)*width+j] > dp[i*width+j-1]:
			i--
		default:
			j--
		}
	}
	return out
}

// Significant reports whether a modification is large enough to flag.
func (r Result) Significant() bool {
	return r.Added+r.Removed > 100 || len(r.Changes) > 20
}

// Summary describes a modification in one line.
func (r Result) Summary() string {
	parts := make([]string, 0, 3)
	if r.Added > 0 {
		parts = append(parts, fmt.Sprintf("Added %d words", r.Added))
	}
	if r.Removed > 0 {
		parts = append(parts, fmt.Sprintf("Removed %d words", r.Removed))
	}
	if len(r.Changes) > 0 {
		sample := r.Changes[:min(3, len(r.Changes))]
		parts = append(parts, "Sample changes: "+strings.Join(sample, ", "))
	}
	return strings.Join(parts, ". ")
}
