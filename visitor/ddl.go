package visitor

import (
	"fmt"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

// DDL never binds parameters: defaults are inlined through CastToQuery and
// every name goes through EscapeIdentifier.

func (v *SQLVisitor) columnDef(col ast.ColumnDef, primaryKey, unique, inlineKey bool) {
	f := v.grammar.Features()

	v.ident(col.Name)
	v.sb.WriteByte(' ')
	if col.Type.Raw != "" {
		v.sb.WriteString(col.Type.Raw)
	} else {
		v.sb.WriteString(v.grammar.ColumnType(col.Type.Scalar, col.AutoIncrement, primaryKey, unique))
	}

	if inlineKey {
		v.sb.WriteString(" PRIMARY KEY")
		if col.AutoIncrement {
			v.sb.WriteString(" AUTOINCREMENT")
		}
	}

	if col.AutoIncrement && f.AutoIncrement == AutoIncrementIdentity {
		v.sb.WriteString(" GENERATED BY DEFAULT AS IDENTITY")
	}

	if col.NotNull {
		v.sb.WriteString(" NOT NULL")
	}

	if col.HasDefault {
		v.sb.WriteString(" DEFAULT ")
		v.literal(col.Default)
	}

	if col.AutoIncrement && f.AutoIncrement == AutoIncrementKeyword {
		v.sb.WriteString(" AUTO_INCREMENT")
	}
}

func (v *SQLVisitor) literal(val any) {
	switch t := val.(type) {
	case ast.Raw:
		v.sb.WriteString(t.SQL)
	case *ast.Raw:
		v.sb.WriteString(t.SQL)
	default:
		v.sb.WriteString(v.grammar.CastToQuery(val))
	}
}

func (v *SQLVisitor) constraintName(name string) {
	if name != "" {
		v.sb.WriteString("CONSTRAINT ")
		v.ident(name)
		v.sb.WriteByte(' ')
	}
}

func (v *SQLVisitor) unique(u ast.UniqueConstraint) {
	v.constraintName(u.Name)
	v.sb.WriteString("UNIQUE (")
	v.identList(u.Columns)
	v.sb.WriteByte(')')
}

func (v *SQLVisitor) foreignKey(fk ast.ForeignKeyConstraint) {
	v.constraintName(fk.Name)
	v.sb.WriteString("FOREIGN KEY (")
	v.ident(fk.Column)
	v.sb.WriteString(") REFERENCES ")
	v.ident(fk.ReferenceTable)
	v.sb.WriteString(" (")
	v.ident(fk.ReferenceColumn)
	v.sb.WriteByte(')')
	if fk.HasOnDelete {
		v.sb.WriteString(" ON DELETE ")
		v.sb.WriteString(fk.OnDelete.String())
	}
}

func (v *SQLVisitor) VisitCreateTable(s *ast.CreateTableStmt) error {
	if s.Table == "" {
		return fmt.Errorf("%w: create table without a name", sqlerr.ErrInvalidQuery)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: create table %s without columns", sqlerr.ErrInvalidQuery, s.Table)
	}

	inline := ""
	if v.grammar.Features().AutoIncrement == AutoIncrementInline && len(s.PrimaryKey) == 1 {
		for _, c := range s.Columns {
			if c.Name == s.PrimaryKey[0] && c.AutoIncrement {
				inline = c.Name
			}
		}
	}

	v.sb.WriteString("CREATE TABLE ")
	if s.IfNotExists {
		v.sb.WriteString("IF NOT EXISTS ")
	}
	v.ident(s.Table)
	v.sb.WriteString(" (")

	for i, col := range s.Columns {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.columnDef(col, s.IsPrimaryKey(col.Name), s.IsUnique(col.Name), col.Name == inline)
	}

	if len(s.PrimaryKey) > 0 && inline == "" {
		v.sb.WriteString(", PRIMARY KEY (")
		v.identList(s.PrimaryKey)
		v.sb.WriteByte(')')
	}

	for _, u := range s.Uniques {
		v.sb.WriteString(", ")
		v.unique(u)
	}

	for _, fk := range s.ForeignKeys {
		v.sb.WriteString(", ")
		v.foreignKey(fk)
	}

	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitAlterTable(s *ast.AlterTableStmt) error {
	if s.Table == "" {
		return fmt.Errorf("%w: alter table without a name", sqlerr.ErrInvalidQuery)
	}
	if len(s.Actions) == 0 {
		return fmt.Errorf("%w: alter table %s without actions", sqlerr.ErrInvalidQuery, s.Table)
	}

	f := v.grammar.Features()
	for _, action := range s.Actions {
		v.sb.WriteString("ALTER TABLE ")
		v.ident(s.Table)
		v.sb.WriteByte(' ')

		switch a := action.(type) {
		case ast.AddColumn:
			v.sb.WriteString("ADD COLUMN ")
			v.columnDef(a.Column, false, false, false)

		case ast.DropColumn:
			v.sb.WriteString("DROP COLUMN ")
			v.ident(a.Name)

		case ast.RenameColumn:
			v.sb.WriteString("RENAME COLUMN ")
			v.ident(a.From)
			v.sb.WriteString(" TO ")
			v.ident(a.To)

		case ast.AlterColumn:
			switch f.AlterColumn {
			case AlterColumnModify:
				v.sb.WriteString("MODIFY COLUMN ")
				v.columnDef(a.Column, false, false, false)
			case AlterColumnSetType:
				v.alterColumnSetType(s.Table, a.Column, false)
			case AlterColumnSplit:
				v.alterColumnSetType(s.Table, a.Column, true)
			default:
				return v.unsupported("ALTER COLUMN")
			}

		case ast.AddUnique:
			if !f.AlterConstraints {
				return v.unsupported("ADD CONSTRAINT")
			}
			v.sb.WriteString("ADD ")
			v.unique(a.Constraint)

		case ast.AddForeignKey:
			if !f.AlterConstraints {
				return v.unsupported("ADD CONSTRAINT")
			}
			v.sb.WriteString("ADD ")
			v.foreignKey(a.Constraint)

		case ast.DropConstraint:
			if !f.AlterConstraints {
				return v.unsupported("DROP CONSTRAINT")
			}
			v.sb.WriteString("DROP CONSTRAINT ")
			v.ident(a.Name)

		case ast.RenameTable:
			v.sb.WriteString("RENAME TO ")
			v.ident(a.To)

		case ast.RawAction:
			v.sb.WriteString(a.SQL)

		default:
			return fmt.Errorf("%w: unknown alter action %T", sqlerr.ErrInvalidQuery, action)
		}

		v.flush()
	}
	return nil
}

// alterColumnSetType writes the type, nullability and default changes of
// col. With split each change becomes its own ALTER TABLE statement.
func (v *SQLVisitor) alterColumnSetType(table string, col ast.ColumnDef, split bool) {
	typ := col.Type.Raw
	if typ == "" {
		typ = v.grammar.ColumnType(col.Type.Scalar, false, false, false)
	}

	next := func() {
		if !split {
			v.sb.WriteString(", ")
			return
		}
		v.flush()
		v.sb.WriteString("ALTER TABLE ")
		v.ident(table)
		v.sb.WriteByte(' ')
	}

	v.sb.WriteString("ALTER COLUMN ")
	v.ident(col.Name)
	v.sb.WriteString(" SET DATA TYPE ")
	v.sb.WriteString(typ)

	next()
	v.sb.WriteString("ALTER COLUMN ")
	v.ident(col.Name)
	if col.NotNull {
		v.sb.WriteString(" SET NOT NULL")
	} else {
		v.sb.WriteString(" DROP NOT NULL")
	}

	if col.HasDefault {
		next()
		v.sb.WriteString("ALTER COLUMN ")
		v.ident(col.Name)
		v.sb.WriteString(" SET DEFAULT ")
		v.literal(col.Default)
	}
}

func (v *SQLVisitor) VisitDropTable(s *ast.DropTableStmt) error {
	if s.Table == "" {
		return fmt.Errorf("%w: drop table without a name", sqlerr.ErrInvalidQuery)
	}
	if s.Cascade && !v.grammar.Features().DropCascade {
		return v.unsupported("DROP TABLE ... CASCADE")
	}

	v.sb.WriteString("DROP TABLE ")
	if s.IfExists {
		v.sb.WriteString("IF EXISTS ")
	}
	v.ident(s.Table)
	if s.Cascade {
		v.sb.WriteString(" CASCADE")
	}
	return nil
}
