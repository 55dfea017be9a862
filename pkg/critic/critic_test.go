package critic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_AllKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
		inner string
	}{
		{"addition", "a {++new++} b", KindAddition, "new"},
		{"deletion", "a {--old--} b", KindDeletion, "old"},
		{"substitution", "a {~~old~>new~~} b", KindSubstitution, "old~>new"},
		{"highlight", "a {==mark==} b", KindHighlight, "mark"},
		{"comment", "a {>>note<<} b", KindComment, "note"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := Scan(tt.input)
			require.Len(t, matches, 1)
			assert.Equal(t, tt.kind, matches[0].Kind)
			assert.Equal(t, tt.inner, matches[0].Inner(tt.input))
		})
	}
}

func TestScan_SubstitutionOldNew(t *testing.T) {
	input := "{~~teh~>the~~}"
	matches := Scan(input)
	require.Len(t, matches, 1)

	old, new := matches[0].OldNew(input)
	assert.Equal(t, "teh", old)
	assert.Equal(t, "the", new)
}

func TestScan_SubstitutionWithoutSeparator(t *testing.T) {
	input := "{~~gone~~}"
	matches := Scan(input)
	require.Len(t, matches, 1)

	old, new := matches[0].OldNew(input)
	assert.Equal(t, "gone", old)
	assert.Equal(t, "", new)
}

func TestScan_UnclosedMarkerIsLiteral(t *testing.T) {
	assert.Empty(t, Scan("{++orphan"))
	assert.Empty(t, Scan("text with {--no close"))
}

func TestScan_UnclosedThenClosed(t *testing.T) {
	// The cursor must move past the broken opener and still find the
	// complete span after it.
	input := "{++broken then {--removed--}"
	matches := Scan(input)
	require.Len(t, matches, 1)
	assert.Equal(t, KindDeletion, matches[0].Kind)
	assert.Equal(t, "removed", matches[0].Inner(input))
}

func TestScan_NestedComment(t *testing.T) {
	input := "{>>root {>>reply<<} tail<<}"
	matches := Scan(input)
	require.Len(t, matches, 1)
	assert.Equal(t, KindComment, matches[0].Kind)
	assert.Equal(t, "root {>>reply<<} tail", matches[0].Inner(input))
}

func TestScan_EmptySpan(t *testing.T) {
	matches := Scan("{++++}")
	require.Len(t, matches, 1)
	assert.Equal(t, "", matches[0].Inner("{++++}"))
}

func TestScan_LongSpan(t *testing.T) {
	body := strings.Repeat("line\n", 500)
	input := "{==" + body + "==}"
	matches := Scan(input)
	require.Len(t, matches, 1)
	assert.Equal(t, body, matches[0].Inner(input))
}

func TestParseThread(t *testing.T) {
	th := ParseThread("root text {>>first reply<<} {>>second reply<<}")
	assert.Equal(t, "root text", th.Root)
	assert.Equal(t, []string{"first reply", "second reply"}, th.Replies)
}

func TestParseThread_NoReplies(t *testing.T) {
	th := ParseThread("just a note")
	assert.Equal(t, "just a note", th.Root)
	assert.Empty(t, th.Replies)
}

func TestParseThread_ReplyOfReplyFlattens(t *testing.T) {
	th := ParseThread("root {>>reply {>>deeper<<}<<}")
	assert.Equal(t, "root", th.Root)
	require.Len(t, th.Replies, 1)
	assert.Equal(t, "reply deeper", th.Replies[0])
}

func TestPreprocessBreaks(t *testing.T) {
	input := "before {++one\n\ntwo++} after"
	got := PreprocessBreaks(input)
	assert.Equal(t, "before {++one"+ParaBreakPlaceholder+"two++} after", got)
}

func TestPreprocessBreaks_OutsideSpanUntouched(t *testing.T) {
	input := "para one\n\npara two {==x==}"
	assert.Equal(t, input, PreprocessBreaks(input))
}

func TestPreprocessBreaks_UnclosedUntouched(t *testing.T) {
	input := "{++open\n\nnever closed"
	assert.Equal(t, input, PreprocessBreaks(input))
}

func TestPreprocessBreaks_Reentrant(t *testing.T) {
	input := "x {>>a\n\nb<<} y"
	once := PreprocessBreaks(input)
	assert.Equal(t, once, PreprocessBreaks(once))
}

func TestPreprocessBreaks_NestedCommentNotSplit(t *testing.T) {
	// A reply block inside a comment must not terminate the outer span.
	input := "{>>root\n\n{>>reply<<}<<}"
	got := PreprocessBreaks(input)
	assert.NotContains(t, got, "\n\n")
	assert.True(t, strings.HasSuffix(got, "<<}"))
}

func TestAcceptReject(t *testing.T) {
	input := "The {--quick --}{++swift ++}fox {~~jumps~>leaps~~} {==high==}{>>really?<<}."

	assert.Equal(t, "The swift fox leaps high.", Accept(input))
	assert.Equal(t, "The quick fox jumps high.", Reject(input))
}

func TestRestoreBreaks(t *testing.T) {
	assert.Equal(t, "a\n\nb", RestoreBreaks("a"+ParaBreakPlaceholder+"b"))
}
