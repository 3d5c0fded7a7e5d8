// Package jpatch implements RFC 6902 JSON Patch: applying a patch document
// to a jvalue.Value tree in place, and generating a minimal patch from a
// structural diff of two trees.
//
// Apply mutates doc in place and does not roll back partially-applied
// operations on failure: callers that need transactional semantics must
// Duplicate the document first.
package jpatch

import (
	"strconv"

	"github.com/lattice-substrate/jtree/jerr"
	"github.com/lattice-substrate/jtree/jpointer"
	"github.com/lattice-substrate/jtree/jvalue"
)

// Code is a stable numeric return code identifying why an Apply failed.
// Apply wraps a non-zero Code in the returned *jerr.Error so
// callers that depend on the legacy numeric contract can recover it.
type Code int

const (
	// CodeOK indicates success.
	CodeOK Code = 0
	// CodeNotArray indicates the patch document was not a JSON array.
	CodeNotArray Code = 1
	// CodeMissingPath indicates an operation lacked a valid "path".
	CodeMissingPath Code = 2
	// CodeInvalidOp indicates an unrecognized "op" value.
	CodeInvalidOp Code = 3
	// CodeMissingFrom indicates "move"/"copy" lacked a "from".
	CodeMissingFrom Code = 4
	// CodeFromNotFound indicates "from" did not resolve.
	CodeFromNotFound Code = 5
	// CodeDuplicateFailed indicates node duplication for "copy" failed.
	CodeDuplicateFailed Code = 6
	// CodeMissingValue indicates "add"/"replace"/"test" lacked "value".
	CodeMissingValue Code = 7
	// CodeValueDuplicateFailed indicates value duplication failed.
	CodeValueDuplicateFailed Code = 8
	// CodeParentResolutionFailed indicates the parent of "path" could not
	// be resolved (includes "add /-" on a non-array parent, and "move"
	// onto "from" or one of its own descendants).
	CodeParentResolutionFailed Code = 9
	// CodeInsertionFailed indicates a mutation-API insertion step failed.
	CodeInsertionFailed Code = 10
	// CodeMalformedIndex indicates an array index token failed to parse or
	// is past the end of the array for "add", or an object member token
	// has a malformed '~' escape.
	CodeMalformedIndex Code = 11
	// CodeReserved is unused.
	CodeReserved Code = 12
	// CodeTargetNotFound indicates "remove"/"replace" of a non-existent
	// target, or a "test" that did not match.
	CodeTargetNotFound Code = 13
)

func codeErr(code Code, msg string) error {
	return &jerr.Error{Class: jerr.ClassPatch, Offset: -1, Code: int(code), Message: msg}
}

// AsCode extracts the stable numeric Code from err, if err is a jpatch
// failure (a *jerr.Error with Class ClassPatch). ok is false for a nil
// err, success, or an error from another class.
func AsCode(err error) (code Code, ok bool) {
	if err == nil {
		return CodeOK, false
	}
	je, is := err.(*jerr.Error)
	if !is || je.Class != jerr.ClassPatch {
		return 0, false
	}
	return Code(je.Code), true
}

// Apply applies patch (an Array of operation Objects) to doc in place.
// The first operation to fail aborts the batch; operations already
// applied remain in effect (no rollback). "test" operations compare
// numbers with the same relative-epsilon tolerance as jvalue.Compare.
func Apply(doc *jvalue.Value, patch *jvalue.Value, caseSensitive bool) error {
	return apply(doc, patch, caseSensitive, false)
}

// ApplyStrict is Apply, except "test" operations require bit-exact
// numeric equality instead of jvalue.Compare's default epsilon tolerance.
// Use this when a patch round-trip must detect numeric drift that the
// default comparison would treat as equal.
func ApplyStrict(doc *jvalue.Value, patch *jvalue.Value, caseSensitive bool) error {
	return apply(doc, patch, caseSensitive, true)
}

func apply(doc *jvalue.Value, patch *jvalue.Value, caseSensitive, exactNumbers bool) error {
	if patch.Kind() != jvalue.Array {
		return codeErr(CodeNotArray, "patch: patch document must be an array")
	}
	for op := patch.Child(); op != nil; op = op.Next() {
		if err := applyOne(doc, op, caseSensitive, exactNumbers); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(doc *jvalue.Value, op *jvalue.Value, caseSensitive, exactNumbers bool) error {
	opName := op.Get("op")
	if opName.Kind() != jvalue.String {
		return codeErr(CodeInvalidOp, "patch: operation missing string \"op\"")
	}
	pathNode := op.Get("path")
	if pathNode.Kind() != jvalue.String {
		return codeErr(CodeMissingPath, "patch: operation missing string \"path\"")
	}
	path := pathNode.StringValue()
	if path != "" && path[0] != '/' {
		return codeErr(CodeMissingPath, "patch: \"path\" must be empty or start with '/'")
	}

	switch opName.StringValue() {
	case "add":
		value := op.Get("value")
		if value == nil {
			return codeErr(CodeMissingValue, "patch: \"add\" missing \"value\"")
		}
		dup, err := jvalue.Duplicate(value, true)
		if err != nil {
			return codeErr(CodeValueDuplicateFailed, "patch: \"add\" value duplication failed")
		}
		return opAdd(doc, path, dup, caseSensitive)
	case "remove":
		return opRemove(doc, path, caseSensitive)
	case "replace":
		value := op.Get("value")
		if value == nil {
			return codeErr(CodeMissingValue, "patch: \"replace\" missing \"value\"")
		}
		dup, err := jvalue.Duplicate(value, true)
		if err != nil {
			return codeErr(CodeValueDuplicateFailed, "patch: \"replace\" value duplication failed")
		}
		return opReplace(doc, path, dup, caseSensitive)
	case "move":
		fromNode := op.Get("from")
		if fromNode.Kind() != jvalue.String {
			return codeErr(CodeMissingFrom, "patch: \"move\" missing \"from\"")
		}
		return opMove(doc, fromNode.StringValue(), path, caseSensitive)
	case "copy":
		fromNode := op.Get("from")
		if fromNode.Kind() != jvalue.String {
			return codeErr(CodeMissingFrom, "patch: \"copy\" missing \"from\"")
		}
		return opCopy(doc, fromNode.StringValue(), path, caseSensitive)
	case "test":
		value := op.Get("value")
		if value == nil {
			return codeErr(CodeMissingValue, "patch: \"test\" missing \"value\"")
		}
		return opTest(doc, path, value, caseSensitive, exactNumbers)
	default:
		return codeErr(CodeInvalidOp, "patch: unknown op "+strconv.Quote(opName.StringValue()))
	}
}

// splitParentPointer splits a non-empty path into its parent pointer and
// final raw (still ~-escaped) token.
func splitParentPointer(path string) (parentPointer, lastToken string) {
	idx := lastSlash(path)
	return path[:idx], path[idx+1:]
}

func lastSlash(path string) int {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return i
		}
	}
	return -1
}

func opAdd(doc *jvalue.Value, path string, value *jvalue.Value, caseSensitive bool) error {
	if path == "" {
		jvalue.ReplaceContents(doc, value)
		return nil
	}
	parentPointer, lastToken := splitParentPointer(path)
	parent, err := jpointer.Resolve(doc, parentPointer, caseSensitive)
	if err != nil {
		return codeErr(CodeParentResolutionFailed, "patch: \"add\" parent path did not resolve")
	}
	switch parent.Kind() {
	case jvalue.Object:
		if lastToken == "-" {
			return codeErr(CodeParentResolutionFailed, "patch: \"add /-\" parent is not an array")
		}
		key, derr := unescapeToken(lastToken)
		if derr != nil {
			return codeErr(CodeMalformedIndex, "patch: malformed pointer token")
		}
		if existing := getByKey(parent, key, caseSensitive); existing != nil {
			jvalue.Replace(parent, existing, value)
			return nil
		}
		jvalue.AddToObject(parent, key, value)
		return nil
	case jvalue.Array:
		if lastToken == "-" {
			if !jvalue.AddToArray(parent, value) {
				return codeErr(CodeInsertionFailed, "patch: \"add /-\" insertion failed")
			}
			return nil
		}
		idx, ierr := decodeArrayIndexStrict(lastToken)
		if ierr != nil {
			return ierr
		}
		if idx > parent.Len() {
			return codeErr(CodeMalformedIndex, "patch: array index out of range for insertion")
		}
		if !jvalue.InsertInArray(parent, idx, value) {
			return codeErr(CodeInsertionFailed, "patch: \"add\" array insertion failed")
		}
		return nil
	default:
		return codeErr(CodeParentResolutionFailed, "patch: \"add\" parent is not a container")
	}
}

func opRemove(doc *jvalue.Value, path string, caseSensitive bool) error {
	if path == "" {
		jvalue.ReplaceContents(doc, nil)
		return nil
	}
	parentPointer, lastToken := splitParentPointer(path)
	parent, err := jpointer.Resolve(doc, parentPointer, caseSensitive)
	if err != nil {
		return codeErr(CodeParentResolutionFailed, "patch: \"remove\" parent path did not resolve")
	}
	switch parent.Kind() {
	case jvalue.Object:
		key, derr := unescapeToken(lastToken)
		if derr != nil {
			return codeErr(CodeMalformedIndex, "patch: malformed pointer token")
		}
		target := getByKey(parent, key, caseSensitive)
		if target == nil {
			return codeErr(CodeTargetNotFound, "patch: \"remove\" target does not exist")
		}
		jvalue.Detach(parent, target)
		return nil
	case jvalue.Array:
		idx, ierr := decodeArrayIndexStrict(lastToken)
		if ierr != nil {
			return ierr
		}
		if jvalue.DetachByIndex(parent, idx) == nil {
			return codeErr(CodeTargetNotFound, "patch: \"remove\" array index out of range")
		}
		return nil
	default:
		return codeErr(CodeParentResolutionFailed, "patch: \"remove\" parent is not a container")
	}
}

func opReplace(doc *jvalue.Value, path string, value *jvalue.Value, caseSensitive bool) error {
	if path == "" {
		jvalue.ReplaceContents(doc, value)
		return nil
	}
	existing, err := jpointer.Resolve(doc, path, caseSensitive)
	if err != nil || existing == nil {
		return codeErr(CodeTargetNotFound, "patch: \"replace\" target does not exist")
	}
	parentPointer, _ := splitParentPointer(path)
	parent, err := jpointer.Resolve(doc, parentPointer, caseSensitive)
	if err != nil {
		return codeErr(CodeParentResolutionFailed, "patch: \"replace\" parent path did not resolve")
	}
	if !jvalue.Replace(parent, existing, value) {
		return codeErr(CodeInsertionFailed, "patch: \"replace\" failed")
	}
	return nil
}

// isAncestorOrSelf reports whether path addresses ancestorPath itself or
// one of its descendants, by pointer-string prefix: every descendant's
// pointer is the ancestor's pointer plus "/token...".
func isAncestorOrSelf(ancestorPath, path string) bool {
	if path == ancestorPath {
		return true
	}
	return len(path) > len(ancestorPath) && path[:len(ancestorPath)] == ancestorPath && path[len(ancestorPath)] == '/'
}

func opMove(doc *jvalue.Value, from, path string, caseSensitive bool) error {
	// Moving a node onto itself or into its own descendant subtree is a
	// well-defined parent-resolution failure, detected before any detach
	// happens, instead of the corrupted tree a naive detach-then-reattach
	// would produce.
	if isAncestorOrSelf(from, path) {
		return codeErr(CodeParentResolutionFailed, "patch: \"move\" path is \"from\" or one of its descendants")
	}
	if from == "" {
		return codeErr(CodeParentResolutionFailed, "patch: \"move\" cannot detach the document root")
	}
	node, err := jpointer.Resolve(doc, from, caseSensitive)
	if err != nil {
		return codeErr(CodeFromNotFound, "patch: \"move\" \"from\" did not resolve")
	}
	fromParentPointer, _ := splitParentPointer(from)
	fromParent, err := jpointer.Resolve(doc, fromParentPointer, caseSensitive)
	if err != nil {
		return codeErr(CodeFromNotFound, "patch: \"move\" \"from\" parent did not resolve")
	}
	if !jvalue.Detach(fromParent, node) {
		return codeErr(CodeFromNotFound, "patch: \"move\" failed to detach \"from\"")
	}
	return opAdd(doc, path, node, caseSensitive)
}

func opCopy(doc *jvalue.Value, from, path string, caseSensitive bool) error {
	node, err := jpointer.Resolve(doc, from, caseSensitive)
	if err != nil {
		return codeErr(CodeFromNotFound, "patch: \"copy\" \"from\" did not resolve")
	}
	dup, derr := jvalue.Duplicate(node, true)
	if derr != nil {
		return codeErr(CodeDuplicateFailed, "patch: \"copy\" duplication failed")
	}
	return opAdd(doc, path, dup, caseSensitive)
}

func opTest(doc *jvalue.Value, path string, value *jvalue.Value, caseSensitive, exactNumbers bool) error {
	actual, err := jpointer.Resolve(doc, path, caseSensitive)
	if err != nil {
		return codeErr(CodeTargetNotFound, "patch: \"test\" path did not resolve")
	}
	equal := jvalue.Compare(actual, value, caseSensitive)
	if exactNumbers {
		equal = jvalue.CompareExact(actual, value, caseSensitive)
	}
	if !equal {
		return codeErr(CodeTargetNotFound, "patch: \"test\" value did not match")
	}
	return nil
}

func getByKey(obj *jvalue.Value, key string, caseSensitive bool) *jvalue.Value {
	if caseSensitive {
		return obj.Get(key)
	}
	return obj.GetCaseInsensitive(key)
}

func decodeArrayIndexStrict(token string) (int, error) {
	if token == "" {
		return 0, codeErr(CodeMalformedIndex, "patch: empty array index")
	}
	if token != "0" && token[0] == '0' {
		return 0, codeErr(CodeMalformedIndex, "patch: leading zero in array index")
	}
	n := 0
	for i := 0; i < len(token); i++ {
		c := token[i]
		if c < '0' || c > '9' {
			return 0, codeErr(CodeMalformedIndex, "patch: non-decimal array index")
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// unescapeToken applies RFC 6901's ~1 -> '/' then ~0 -> '~' token decoding.
// It is duplicated (in small form) from jpointer's internal decoder because
// path-splitting here needs the last raw token decoded independently of a
// full Resolve call.
func unescapeToken(tok string) (string, error) {
	hasTilde := false
	for i := 0; i < len(tok); i++ {
		if tok[i] == '~' {
			hasTilde = true
			break
		}
	}
	if !hasTilde {
		return tok, nil
	}
	out := make([]byte, 0, len(tok))
	for i := 0; i < len(tok); i++ {
		if tok[i] != '~' {
			out = append(out, tok[i])
			continue
		}
		if i+1 >= len(tok) {
			return "", jerr.New(jerr.ClassPointer, "pointer: token ends with bare '~'")
		}
		switch tok[i+1] {
		case '0':
			out = append(out, '~')
		case '1':
			out = append(out, '/')
		default:
			return "", jerr.New(jerr.ClassPointer, "pointer: '~' not followed by '0' or '1'")
		}
		i++
	}
	return string(out), nil
}

// escapeToken is unescapeToken's inverse, used by Diff to build new
// pointer path strings from object keys.
func escapeToken(s string) string {
	hasSpecial := false
	for i := 0; i < len(s); i++ {
		if s[i] == '~' || s[i] == '/' {
			hasSpecial = true
			break
		}
	}
	if !hasSpecial {
		return s
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			out = append(out, '~', '0')
		case '/':
			out = append(out, '~', '1')
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
