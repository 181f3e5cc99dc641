package materiallaw

import (
	"fmt"
	"sort"

	"gopkg.in/ini.v1"
)

// Database maps material names to initialised laws
type Database map[string]Law

// LoadDatabase reads materials from INI data, a file name or []byte. Every
// section is one material, its "law" key selects the relation and all other
// keys are numeric parameters:
//
//	[sand]
//	law    = brookscorey
//	swr    = 0.05
//	pe     = 500
//	lambda = 2
func LoadDatabase(source interface{}) (db Database, err error) {
	var file *ini.File
	if file, err = ini.Load(source); err != nil {
		err = fmt.Errorf("reading material database: %w", err)
		return
	}
	db = make(Database)
	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		var (
			law  Law
			prms Prms
		)
		if law, err = New(sec.Key("law").MustString("null")); err != nil {
			err = fmt.Errorf("material %q: %w", sec.Name(), err)
			return
		}
		for _, key := range sec.Keys() {
			if key.Name() == "law" {
				continue
			}
			var v float64
			if v, err = key.Float64(); err != nil {
				err = fmt.Errorf("material %q, parameter %q: %w", sec.Name(), key.Name(), err)
				return
			}
			prms = append(prms, &Prm{N: key.Name(), V: v})
		}
		if err = law.Init(prms); err != nil {
			err = fmt.Errorf("material %q: %w", sec.Name(), err)
			return
		}
		db[sec.Name()] = law
	}
	return
}

func (db Database) Get(name string) (law Law, err error) {
	var ok bool
	if law, ok = db[name]; !ok {
		err = fmt.Errorf("material %q not in database %v", name, db.Names())
	}
	return
}

func (db Database) Names() (names []string) {
	for name := range db {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
