// Package nfo reads Kodi-style movie.nfo sidecar files.
package nfo

import (
	"context"
	"encoding/xml"
	"os"
	"strconv"

	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// UnknownActor names an <actor> entry that carries no name.
const UnknownActor = "Unknown Actor"

type Movie struct {
	XMLName     xml.Name   `xml:"movie"`
	Title       string     `xml:"title" mod:"trim"`
	RuntimeText string     `xml:"runtime" mod:"trim"`
	Runtime     int        `xml:"-"`
	MPAA        string     `xml:"mpaa" mod:"trim"`
	UniqueIDs   []UniqueID `xml:"uniqueid" mod:"dive"`
	Genres      []string   `xml:"genre" mod:"dive,trim"`
	Tags        []string   `xml:"tag" mod:"dive,trim"`
	Country     string     `xml:"country" mod:"trim"`
	Premiered   string     `xml:"premiered" mod:"trim" validate:"omitempty,datetime=2006-01-02"`
	Studio      string     `xml:"studio" mod:"trim"`
	Actors      []Actor    `xml:"actor" mod:"dive"`
	Director    string     `xml:"director" mod:"trim"`
	Set         *MovieSet  `xml:"set"`
}

type UniqueID struct {
	Type    string `xml:"type,attr" mod:"trim"`
	Default bool   `xml:"default,attr"`
	Value   string `xml:",chardata" mod:"trim"`
}

type Actor struct {
	Name  string `xml:"name" mod:"trim"`
	Thumb string `xml:"thumb" mod:"trim"`
}

type MovieSet struct {
	Name     string `xml:"name" mod:"trim"`
	Overview string `xml:"overview" mod:"trim"`
}

// Code is the title's business identifier: the default <uniqueid>, else the
// first non-empty one.
func (m *Movie) Code() string {
	for _, id := range m.UniqueIDs {
		if id.Default && id.Value != "" {
			return id.Value
		}
	}
	for _, id := range m.UniqueIDs {
		if id.Value != "" {
			return id.Value
		}
	}
	return ""
}

// SetName is the collection this title belongs to, or "" when it has none.
func (m *Movie) SetName() string {
	if m.Set == nil {
		return ""
	}
	return m.Set.Name
}

type Parser struct {
	conform  *mold.Transformer
	validate *validator.Validate
}

func NewParser() *Parser {
	return &Parser{
		conform:  modifiers.New(),
		validate: validator.New(),
	}
}

// Parse reads and cleans up the sidecar at path. Whitespace around every
// value is trimmed, blank genres and tags are dropped, and a premiered date
// must be YYYY-MM-DD when present.
func (p *Parser) Parse(ctx context.Context, path string) (*Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	movie := &Movie{}
	if err := xml.NewDecoder(f).Decode(movie); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	if err := p.conform.Struct(ctx, movie); err != nil {
		return nil, errors.WithStack(err)
	}
	if movie.Set != nil {
		if err := p.conform.Struct(ctx, movie.Set); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	if err := p.validate.Struct(movie); err != nil {
		return nil, errors.Wrapf(err, "invalid sidecar %s", path)
	}

	movie.Genres = compact(movie.Genres)
	movie.Tags = compact(movie.Tags)
	for i := range movie.Actors {
		if movie.Actors[i].Name == "" {
			movie.Actors[i].Name = UnknownActor
		}
	}
	if runtime, err := strconv.Atoi(movie.RuntimeText); err == nil {
		movie.Runtime = runtime
	}

	return movie, nil
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
