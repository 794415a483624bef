package dialect

import "github.com/Sentience-Framework/sentience-v3-sub001/visitor"

// MariaDB is MySQL plus INSERT and DELETE ... RETURNING.
type MariaDB struct {
	MySQL
	compiler
}

func NewMariaDB() *MariaDB {
	m := &MariaDB{}
	m.MySQL.compiler = compiler{g: &m.MySQL}
	m.compiler = compiler{g: m}
	return m
}

func (m *MariaDB) Name() string { return "mariadb" }

func (m *MariaDB) Features() visitor.Features {
	f := m.MySQL.Features()
	f.ReturningInsert = true
	f.ReturningDelete = true
	return f
}
