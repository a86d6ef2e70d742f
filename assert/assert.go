// Package assert merges gotest.tools and testify assertions and renders eris stack traces on error failures.
package assert

import (
	"errors"
	"time"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/rotisserie/eris"
	testify "github.com/stretchr/testify/assert"
	gotest "gotest.tools/v3/assert"
)

type helperT interface {
	Helper()
}

func helper(t any) {
	if ht, ok := t.(helperT); ok {
		ht.Helper()
	}
}

func Assert(t gotest.TestingT, comparison gotest.BoolOrComparison, msgAndArgs ...interface{}) {
	helper(t)
	gotest.Assert(t, comparison, msgAndArgs...)
}

func Check(t gotest.TestingT, comparison gotest.BoolOrComparison, msgAndArgs ...interface{}) bool {
	helper(t)
	return gotest.Check(t, comparison, msgAndArgs...)
}

func NilError(t gotest.TestingT, err error, msgAndArgs ...interface{}) {
	helper(t)
	msgAndArgs = append([]interface{}{eris.ToString(err, true)}, msgAndArgs...)
	gotest.NilError(t, err, msgAndArgs...)
}

func Equal(t gotest.TestingT, x, y interface{}, msgAndArgs ...interface{}) {
	helper(t)
	gotest.Equal(t, x, y, msgAndArgs...)
}

func DeepEqual(t gotest.TestingT, x, y interface{}, opts ...gocmp.Option) {
	helper(t)
	gotest.DeepEqual(t, x, y, opts...)
}

func ErrorContains(t gotest.TestingT, err error, substring string, msgAndArgs ...interface{}) {
	helper(t)
	msgAndArgs = append([]interface{}{eris.ToString(err, true)}, msgAndArgs...)
	gotest.ErrorContains(t, err, substring, msgAndArgs...)
}

// ErrorIs walks the whole chain with errors.Is, so sentinels carried inside typed errors
// (AbandonedError, RemoteCallError) are found as well as eris wrapped ones.
func ErrorIs(t gotest.TestingT, err error, expected error, msgAndArgs ...interface{}) {
	helper(t)
	if errors.Is(err, expected) {
		return
	}
	msgAndArgs = append([]interface{}{eris.ToString(err, true)}, msgAndArgs...)
	gotest.ErrorIs(t, eris.Cause(err), eris.Cause(expected), msgAndArgs...)
}

// testify assert wrappers

func NoError(t testify.TestingT, err error, msgAndArgs ...interface{}) bool {
	helper(t)
	if err != nil {
		msgAndArgs = append([]interface{}{eris.ToString(err, true)}, msgAndArgs...)
	}
	return testify.NoError(t, err, msgAndArgs...)
}

func Nil(t testify.TestingT, object interface{}, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.Nil(t, object, msgAndArgs...)
}

func NotNil(t testify.TestingT, object interface{}, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.NotNil(t, object, msgAndArgs...)
}

func Empty(t testify.TestingT, object interface{}, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.Empty(t, object, msgAndArgs...)
}

func Len(t testify.TestingT, object interface{}, length int, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.Len(t, object, length, msgAndArgs...)
}

func True(t testify.TestingT, value bool, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.True(t, value, msgAndArgs...)
}

func False(t testify.TestingT, value bool, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.False(t, value, msgAndArgs...)
}

func Contains(t testify.TestingT, s, contains interface{}, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.Contains(t, s, contains, msgAndArgs...)
}

func ElementsMatch(t testify.TestingT, listA, listB interface{}, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.ElementsMatch(t, listA, listB, msgAndArgs...)
}

func JSONEq(t testify.TestingT, expected string, actual string, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.JSONEq(t, expected, actual, msgAndArgs...)
}

func Panics(t testify.TestingT, f testify.PanicTestFunc, msgAndArgs ...interface{}) bool {
	helper(t)
	return testify.Panics(t, f, msgAndArgs...)
}

func Eventually(
	t testify.TestingT, condition func() bool, waitFor time.Duration, tick time.Duration, msgAndArgs ...interface{},
) bool {
	helper(t)
	return testify.Eventually(t, condition, waitFor, tick, msgAndArgs...)
}

func Never(
	t testify.TestingT, condition func() bool, waitFor time.Duration, tick time.Duration, msgAndArgs ...interface{},
) bool {
	helper(t)
	return testify.Never(t, condition, waitFor, tick, msgAndArgs...)
}
