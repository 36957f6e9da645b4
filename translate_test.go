package lingo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/lingo"
	"github.com/pitabwire/lingo/reactive"
)

// TranslateTestSuite covers the two reactive call shapes: key plus variable
// stores, and template parts interleaved with interpolation stores.
type TranslateTestSuite struct {
	suite.Suite
}

func TestTranslateSuite(t *testing.T) {
	suite.Run(t, &TranslateTestSuite{})
}

func (s *TranslateTestSuite) TestIdentityBeforeAnyEngine() {
	b := lingo.New(context.Background())

	s.Require().Equal("plain.key", b.Translate("plain.key", nil).Get())
	s.Require().Equal("plain.key", b.T().Get()("plain.key", nil))

	tr := b.TranslateTemplate([]string{"just parts"})
	s.Require().Equal("just parts", tr.Get())
}

func (s *TranslateTestSuite) TestKeyFormRecomputesOnVariableChange() {
	eng := newMockEngine(true)
	b := lingo.New(context.Background(), lingo.WithEngine(eng))

	name := reactive.NewStore(b.Scope(), "Ann")
	tr := b.Translate("greeting", map[string]*reactive.Store[string]{"name": name})

	s.Require().Equal("greeting:Ann", tr.Get())

	name.Set("Ben")
	s.Require().Equal("greeting:Ben", tr.Get())

	calls := eng.snapshotCalls()
	s.Require().NotEmpty(calls)
	last := calls[len(calls)-1]
	s.Require().Equal("greeting", last.key)
	s.Require().Equal("Ben", last.vars["name"])
}

func (s *TranslateTestSuite) TestKeyFormNilVariableStoreResolvesEmpty() {
	eng := newMockEngine(true)
	b := lingo.New(context.Background(), lingo.WithEngine(eng))

	tr := b.Translate("greeting", map[string]*reactive.Store[string]{"name": nil})
	s.Require().Equal("greeting:", tr.Get())
}

func (s *TranslateTestSuite) TestTemplateFormBuildsKeyFromParts() {
	eng := newMockEngine(true)
	eng.setTranslation("Hello, World!", "Hello out there, World!")
	eng.setTranslation("Hello, Team!", "Hello out there, Team!")
	b := lingo.New(context.Background(), lingo.WithEngine(eng))

	who := reactive.NewStore(b.Scope(), "World")
	tr := b.TranslateTemplate([]string{"Hello, ", "!"}, who)

	s.Require().Equal("Hello out there, World!", tr.Get())

	who.Set("Team")
	s.Require().Equal("Hello out there, Team!", tr.Get())

	var keys []string
	for _, c := range eng.snapshotCalls() {
		keys = append(keys, c.key)
	}
	s.Require().Contains(keys, "Hello, World!")
	s.Require().Contains(keys, "Hello, Team!")
}

func (s *TranslateTestSuite) TestTemplateFormNilInterpolation() {
	b := lingo.New(context.Background())

	tr := b.TranslateTemplate([]string{"a-", "!"}, nil)
	s.Require().Equal("a-!", tr.Get())
}

func (s *TranslateTestSuite) TestTranslateTracksEngineReplacement() {
	scope := reactive.NewScope()
	store := reactive.NewStore[lingo.Engine](scope, nil)
	b := lingo.New(context.Background(),
		lingo.WithScope(scope),
		lingo.WithEngineStore(store))

	tr := b.Translate("status", nil)
	s.Require().Equal("status", tr.Get(), "identity before an engine arrives")

	eng := newMockEngine(true)
	eng.setTranslation("status", "translated")
	store.Set(eng)
	s.Require().Equal("translated", tr.Get())

	store.Set(nil)
	s.Require().Equal("status", tr.Get(), "identity again once the engine is gone")
}
