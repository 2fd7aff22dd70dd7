// Package manifest loads the plane layouts and flights the seat manager
// starts with from a YAML file.
//
//	planes:
//	  A320:
//	    BUSINESS:        {rows: 2, seats_per_row: 4}
//	    ECONOMY:         {rows: 20, seats_per_row: 6}
//	flights:
//	  - code: AA101
//	    destination: JFK
//	    plane: A320
//	    tickets:
//	      - {passenger: john, category: BUSINESS}
//
// A flight may set state: CONFIRMED to be loaded already closed.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/flight-seat-manager/internal/inventory"
	"github.com/iliyamo/flight-seat-manager/internal/model"
)

type categoryDoc struct {
	Rows        int `yaml:"rows"`
	SeatsPerRow int `yaml:"seats_per_row"`
}

type ticketDoc struct {
	Passenger string `yaml:"passenger"`
	Category  string `yaml:"category"`
}

type flightDoc struct {
	Code        string      `yaml:"code"`
	Destination string      `yaml:"destination"`
	Plane       string      `yaml:"plane"`
	State       string      `yaml:"state"`
	Tickets     []ticketDoc `yaml:"tickets"`
}

type document struct {
	Planes  map[string]map[string]categoryDoc `yaml:"planes"`
	Flights []flightDoc                       `yaml:"flights"`
}

// Flight is one parsed flight entry.
type Flight struct {
	Code        string
	Destination string
	State       model.FlightState
	Layout      model.Layout
	Tickets     []model.Ticket
}

// Manifest is a parsed, validated manifest file.
type Manifest struct {
	Planes  map[string]model.Layout
	Flights []Flight
}

// Parse reads a manifest document.  Unknown fields are rejected so typos in
// hand written files surface at startup.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("manifest is empty")
		}
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	m := &Manifest{Planes: make(map[string]model.Layout, len(doc.Planes))}
	for name, cats := range doc.Planes {
		l := model.Layout{Name: name, Categories: make(map[model.RowCategory]model.CategoryLayout, len(cats))}
		for key, cd := range cats {
			c, err := model.ParseRowCategory(key)
			if err != nil {
				return nil, fmt.Errorf("plane %q: %w", name, err)
			}
			l.Categories[c] = model.CategoryLayout{Rows: cd.Rows, SeatsPerRow: cd.SeatsPerRow}
		}
		if err := l.Validate(); err != nil {
			return nil, err
		}
		m.Planes[name] = l
	}

	for i, fd := range doc.Flights {
		f, err := m.flight(fd)
		if err != nil {
			return nil, fmt.Errorf("flights[%d]: %w", i, err)
		}
		m.Flights = append(m.Flights, f)
	}
	return m, nil
}

func (m *Manifest) flight(fd flightDoc) (Flight, error) {
	if fd.Code == "" {
		return Flight{}, errors.New("code is required")
	}
	if fd.Destination == "" {
		return Flight{}, fmt.Errorf("flight %s: destination is required", fd.Code)
	}
	layout, ok := m.Planes[fd.Plane]
	if !ok {
		return Flight{}, fmt.Errorf("flight %s: unknown plane %q", fd.Code, fd.Plane)
	}
	state := model.StatePending
	if fd.State != "" {
		s, err := model.ParseFlightState(fd.State)
		if err != nil {
			return Flight{}, fmt.Errorf("flight %s: %w", fd.Code, err)
		}
		state = s
	}
	f := Flight{Code: fd.Code, Destination: fd.Destination, State: state, Layout: layout}
	for _, td := range fd.Tickets {
		c, err := model.ParseRowCategory(td.Category)
		if err != nil {
			return Flight{}, fmt.Errorf("flight %s, passenger %q: %w", fd.Code, td.Passenger, err)
		}
		f.Tickets = append(f.Tickets, model.Ticket{Passenger: td.Passenger, Category: c})
	}
	return f, nil
}

// Load parses the manifest at path.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(bytes.NewReader(b))
}

// Registry builds the inventory described by m.  Flights are added in code
// order; flights marked CONFIRMED are transitioned after insertion.
func (m *Manifest) Registry() (*inventory.Registry, error) {
	flights := append([]Flight(nil), m.Flights...)
	sort.Slice(flights, func(i, j int) bool { return flights[i].Code < flights[j].Code })

	reg := inventory.NewRegistry()
	for _, mf := range flights {
		f, err := inventory.NewFlight(mf.Code, mf.Destination, mf.Layout, mf.Tickets)
		if err != nil {
			return nil, err
		}
		if err := reg.Add(f); err != nil {
			return nil, err
		}
		if mf.State != model.StatePending {
			if err := reg.TransitionState(mf.Code, mf.State); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

// LoadRegistry is Load followed by Registry.
func LoadRegistry(path string) (*inventory.Registry, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return m.Registry()
}
