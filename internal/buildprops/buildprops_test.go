package buildprops

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"pihooks/internal/profile"
)

type TableSuite struct {
	suite.Suite
	table *Table
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableSuite))
}

func (s *TableSuite) SetupTest() {
	s.table = New(Values{
		Manufacturer:  "OnePlus",
		Model:         "CPH2449",
		SecurityPatch: "2024-01-01",
		FirstAPILevel: 33,
	})
}

func (s *TableSuite) TestSetStringAttribute() {
	s.Require().NoError(s.table.SetAttribute(profile.Model, "Pixel 8 Pro"))
	v, ok := s.table.Get(profile.Model)
	s.True(ok)
	s.Equal("Pixel 8 Pro", v)
	s.Equal("Pixel 8 Pro", s.table.Build().Model)
}

func (s *TableSuite) TestIntegerAttribute() {
	s.Run("valid integer is stored", func() {
		s.Require().NoError(s.table.SetAttribute(profile.FirstAPILevel, "32"))
		s.Equal(32, s.table.FirstAPILevel())
	})

	s.Run("non integer fails with parse error", func() {
		err := s.table.SetAttribute(profile.FirstAPILevel, "thirty")
		s.ErrorIs(err, ErrParse)
		s.Equal(32, s.table.FirstAPILevel())
	})
}

func (s *TableSuite) TestUnknownAttribute() {
	err := s.table.SetAttribute(profile.Attribute("SERIAL"), "x")
	s.ErrorIs(err, ErrAccess)

	_, ok := s.table.Get(profile.Attribute("SERIAL"))
	s.False(ok)
}

func (s *TableSuite) TestValuesIsACopy() {
	v := s.table.Values()
	v.Model = "changed"
	s.Equal("CPH2449", s.table.Values().Model)
	s.Equal("2024-01-01", s.table.SecurityPatch())
}
