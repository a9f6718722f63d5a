package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Justification: every layer of the resolution engine communicates failure
// through these primitives. Invariants like "wrapped domain errors preserve
// the original code" and "errors.Is matches by code" must hold or the
// transport layer maps errors to the wrong status.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "no capital for atlantis"}
		s.Equal("no capital for atlantis", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodePersistence}
		s.Equal("persistence_failed", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	cause := errors.New("disk full")
	err := Wrap(cause, CodePersistence, "write store file")

	s.ErrorIs(err, cause)
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	err := New(CodeInvalidCountry, "no such country")

	s.ErrorIs(err, &Error{Code: CodeInvalidCountry})
	s.NotErrorIs(err, &Error{Code: CodeNotFound})
}

func (s *DomainErrorsSuite) TestWrapPreservesExistingCode() {
	inner := New(CodePersistence, "rename failed")
	outer := Wrap(fmt.Errorf("insert: %w", inner), CodeInternal, "save entry")

	s.True(HasCode(outer, CodePersistence))
	s.False(HasCode(outer, CodeInternal))
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.Run("matches wrapped domain error", func() {
		err := fmt.Errorf("outer: %w", New(CodeTimeout, "directory timeout"))
		s.True(HasCode(err, CodeTimeout))
	})

	s.Run("plain errors have no code", func() {
		s.False(HasCode(errors.New("plain"), CodeInternal))
	})

	s.Run("nil error has no code", func() {
		s.False(HasCode(nil, CodeInternal))
	})
}
