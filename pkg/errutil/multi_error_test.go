package errutil

import (
	"errors"
	"testing"

	"github.com/weftui/weft/pkg/tt"
)

var (
	err1 = errors.New("error 1")
	err2 = errors.New("error 2")
)

func TestMulti(t *testing.T) {
	tt.Test(t, tt.Fn("Multi", Multi), tt.Table{
		tt.Args().Rets(nilError),
		tt.Args(err1).Rets(err1),
		tt.Args(err1, err2).Rets(errWithMessage("multiple errors: error 1; error 2")),
		tt.Args(Multi(err1, err2), err1).Rets(
			errWithMessage("multiple errors: error 1; error 2; error 1")),
	})
}

func TestMulti_NilInputs(t *testing.T) {
	if err := Multi(nil, nil); err != nil {
		t.Errorf("Multi(nil, nil) = %v, want nil", err)
	}
	if err := Multi(nil, err1, nil); err != err1 {
		t.Errorf("Multi(nil, err1, nil) = %v, want err1", err)
	}
}

func TestMulti_Unwrap(t *testing.T) {
	err := Multi(err1, err2)
	if !errors.Is(err, err1) {
		t.Errorf("errors.Is(Multi(err1, err2), err1) = false, want true")
	}
	if !errors.Is(err, err2) {
		t.Errorf("errors.Is(Multi(err1, err2), err2) = false, want true")
	}
}

var nilError = tt.Matcher(isNil{})

type isNil struct{}

func (isNil) Match(ret tt.RetValue) bool { return ret == nil }

type errWithMessage string

func (m errWithMessage) Match(ret tt.RetValue) bool {
	err, ok := ret.(error)
	return ok && err != nil && err.Error() == string(m)
}
