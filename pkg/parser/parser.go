package parser

import (
	"fmt"
	"io"
	"runtime"

	"github.com/MaxwellKnight/csvg/pkg/schema"
)

type Parser struct {
	scanner   scanner
	sctx      ScanCtx
	unscanned bool
	failed    bool
}

func NewParser(rr io.RuneReader, fn string) *Parser {
	var p Parser
	p.scanner.init(rr, fn)
	return &p
}

// Parse returns the next CREATE TABLE or ALTER TABLE ... ADD FOREIGN KEY
// statement, skipping any other statement silently. io.EOF signals end of
// input; any other error covers exactly one malformed statement and the
// next call resumes after it.
func (p *Parser) Parse() (stmt Stmt, err error) {
	if p.failed {
		p.skipStatement()
		p.failed = false
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				panic(r)
			}
			err = r.(error)
			stmt = nil
			p.failed = (p.sctx.Token != EndOfStatement && p.sctx.Token != EOF)
		}
	}()

	for {
		t := p.scan()
		if t == EOF {
			return nil, io.EOF
		} else if t == EndOfStatement {
			continue
		}

		if t == Reserved && p.sctx.Ident == "create" {
			if p.scan() == Reserved && p.sctx.Ident == "table" {
				return p.parseCreateTable(), nil
			}
			p.skipStatement()
		} else if t == Reserved && p.sctx.Ident == "alter" {
			if p.scan() == Reserved && p.sctx.Ident == "table" {
				if stmt, ok := p.parseAlterTable(); ok {
					return stmt, nil
				}
				continue
			}
			p.skipStatement()
		} else {
			p.skipStatement()
		}
	}
}

func (p *Parser) error(msg string) {
	panic(fmt.Errorf("parser: %s: %s", p.sctx.Position, msg))
}

func (p *Parser) scan() rune {
	if p.unscanned {
		p.unscanned = false
	} else {
		p.scanner.Scan(&p.sctx)
		if p.sctx.Token == Error {
			panic(p.sctx.Error)
		}
	}
	return p.sctx.Token
}

func (p *Parser) unscan() {
	if p.unscanned {
		panic("parser: too much lookback")
	}
	p.unscanned = true
}

func (p *Parser) got() string {
	switch p.sctx.Token {
	case EOF:
		return "end of file"
	case EndOfStatement:
		return "end of statement (;)"
	case Identifier:
		return fmt.Sprintf("identifier %s", p.sctx.Ident)
	case Reserved:
		return fmt.Sprintf("keyword %s", p.sctx.Ident)
	case String:
		return fmt.Sprintf("string %q", p.sctx.String)
	case Integer:
		return fmt.Sprintf("integer %d", p.sctx.Integer)
	case Float:
		return fmt.Sprintf("float %g", p.sctx.Float)
	}
	return fmt.Sprintf("%q", string(p.sctx.Token))
}

func (p *Parser) expectReserved(ids ...string) string {
	t := p.scan()
	if t == Reserved {
		for _, id := range ids {
			if p.sctx.Ident == id {
				return id
			}
		}
	}

	var msg string
	if len(ids) == 1 {
		msg = ids[0]
	} else {
		for i, id := range ids {
			if i == len(ids)-1 {
				msg += ", or "
			} else if i > 0 {
				msg += ", "
			}
			msg += id
		}
	}
	p.error(fmt.Sprintf("expected %s, got %s", msg, p.got()))
	return ""
}

func (p *Parser) optionalReserved(ids ...string) bool {
	if p.scan() == Reserved {
		for _, id := range ids {
			if p.sctx.Ident == id {
				return true
			}
		}
	}
	p.unscan()
	return false
}

func (p *Parser) expectIdentifier(msg string) string {
	if p.scan() != Identifier {
		p.error(fmt.Sprintf("%s, got %s", msg, p.got()))
	}
	return p.sctx.Ident
}

func (p *Parser) expectTokens(tokens ...rune) rune {
	t := p.scan()
	for _, e := range tokens {
		if t == e {
			return t
		}
	}

	var msg string
	for i, e := range tokens {
		if i == len(tokens)-1 && i > 0 {
			msg += ", or "
		} else if i > 0 {
			msg += ", "
		}
		msg += formatToken(e)
	}
	p.error(fmt.Sprintf("expected %s, got %s", msg, p.got()))
	return 0
}

func (p *Parser) maybeToken(mr rune) bool {
	if p.scan() == mr {
		return true
	}
	p.unscan()
	return false
}

// skipStatement consumes tokens through the next semicolon; scanner errors
// inside a skipped statement are not worth reporting.
func (p *Parser) skipStatement() {
	for {
		if p.unscanned {
			p.unscanned = false
		} else {
			p.scanner.Scan(&p.sctx)
		}
		t := p.sctx.Token
		if t == EOF || t == EndOfStatement || t == Error {
			return
		}
	}
}

// skipBalanced consumes tokens up to and including the parenthesis closing
// an already consumed open parenthesis.
func (p *Parser) skipBalanced() {
	depth := 1
	for depth > 0 {
		switch p.scan() {
		case LParen:
			depth += 1
		case RParen:
			depth -= 1
		case EOF, EndOfStatement:
			p.error("unbalanced parentheses")
		}
	}
}

// parseTableName handles optionally qualified names; only the last part
// matters since the graph is keyed by bare table names.
func (p *Parser) parseTableName() string {
	nam := p.expectIdentifier("expected a table name")
	for p.maybeToken(Dot) {
		nam = p.expectIdentifier("expected a table name")
	}
	return nam
}

func (p *Parser) parseCreateTable() Stmt {
	// CREATE TABLE [IF NOT EXISTS] [schema '.'] table '(' ... ')'
	var s CreateTable

	if p.optionalReserved("if") {
		p.expectReserved("not")
		p.expectReserved("exists")
		s.IfNotExists = true
	}

	s.Table = p.parseTableName()
	p.expectTokens(LParen)
	p.parseCreateDetails(&s)

	// Trailing table options (ENGINE=..., WITH (...), etc.) are opaque.
	p.skipTableOptions()
	return &s
}

// skipTableOptions consumes trailing table options through the next
// semicolon. A CREATE or ALTER keyword before one means the semicolon was
// forgotten; stop there so the next statement is not swallowed with the
// options.
func (p *Parser) skipTableOptions() {
	for {
		if p.unscanned {
			p.unscanned = false
		} else {
			p.scanner.Scan(&p.sctx)
		}
		t := p.sctx.Token
		if t == EOF || t == EndOfStatement || t == Error {
			return
		}
		if t == Reserved && (p.sctx.Ident == "create" || p.sctx.Ident == "alter") {
			p.unscan()
			return
		}
	}
}

func (p *Parser) parseCreateDetails(s *CreateTable) {
	/*
		'(' (column data_type [column_constraint] ...
			| [CONSTRAINT constraint] table_constraint) [',' ...] ')'
		table_constraint =
			  PRIMARY KEY key_columns
			| UNIQUE key_columns
			| CHECK '(' ... ')'
			| FOREIGN KEY columns REFERENCES [schema '.'] table [columns]
			  [ON DELETE referential_action] [ON UPDATE referential_action]
	*/

	for {
		var cn string
		if p.optionalReserved("constraint") {
			cn = p.expectIdentifier("expected a constraint name")
		}

		if p.optionalReserved("primary") {
			p.expectReserved("key")
			for _, nam := range p.parseKeyColumns() {
				cdx := p.columnNum(s, nam)
				s.Columns[cdx].PrimaryKey = true
			}
		} else if p.optionalReserved("unique") {
			p.parseKeyColumns()
		} else if p.optionalReserved("check") {
			p.expectTokens(LParen)
			p.skipBalanced()
		} else if p.optionalReserved("foreign") {
			p.expectReserved("key")
			s.ForeignKeys = append(s.ForeignKeys, p.parseForeignKey(s.Table)...)
		} else if cn != "" {
			p.error("CONSTRAINT name specified without a constraint")
		} else {
			p.parseColumn(s)
		}

		if p.expectTokens(Comma, RParen) == RParen {
			break
		}
	}
}

func (p *Parser) columnNum(s *CreateTable, nam string) int {
	for cdx, col := range s.Columns {
		if col.Name == nam {
			return cdx
		}
	}
	p.error(fmt.Sprintf("unknown column: %s", nam))
	return -1
}

func (p *Parser) parseKeyColumns() []string {
	var cols []string
	p.expectTokens(LParen)
	for {
		nam := p.expectIdentifier("expected a column name")
		for _, col := range cols {
			if col == nam {
				p.error(fmt.Sprintf("duplicate column name: %s", nam))
			}
		}
		cols = append(cols, nam)
		p.optionalReserved("asc", "desc")

		if p.expectTokens(Comma, RParen) == RParen {
			break
		}
	}
	return cols
}

func (p *Parser) parseForeignKey(tbl string) []schema.ForeignKey {
	var cols []string
	p.expectTokens(LParen)
	for {
		cols = append(cols, p.expectIdentifier("expected a column name"))
		if p.maybeToken(RParen) {
			break
		}
		p.expectTokens(Comma)
	}

	p.expectReserved("references")

	rtn := p.parseTableName()
	var refCols []string
	if p.maybeToken(LParen) {
		for {
			refCols = append(refCols, p.expectIdentifier("expected a column name"))
			if p.maybeToken(RParen) {
				break
			}
			p.expectTokens(Comma)
		}
	}
	p.parseOnActions()

	if len(refCols) > 0 && len(refCols) != len(cols) {
		p.error(fmt.Sprintf("foreign key has %d columns but references %d", len(cols),
			len(refCols)))
	}

	fks := make([]schema.ForeignKey, 0, len(cols))
	for i, col := range cols {
		fk := schema.ForeignKey{Table: tbl, Column: col, RefTable: rtn}
		if len(refCols) > 0 {
			fk.RefColumn = refCols[i]
		}
		fks = append(fks, fk)
	}
	return fks
}

func (p *Parser) parseOnActions() {
	for p.optionalReserved("on") {
		p.expectReserved("delete", "update")
		switch p.expectReserved("no", "restrict", "cascade", "set") {
		case "no":
			p.expectReserved("action")
		case "set":
			p.expectReserved("null", "default")
		}
	}
}

func (p *Parser) parseColumn(s *CreateTable) {
	/*
		column data_type [[CONSTRAINT constraint] column_constraint]
		column_constraint =
			  DEFAULT value
			| [NOT] NULL
			| PRIMARY KEY
			| UNIQUE
			| CHECK '(' ... ')'
			| REFERENCES [schema '.'] table ['(' column ')']
			  [ON DELETE referential_action] [ON UPDATE referential_action]
	*/

	nam := p.expectIdentifier("expected a column name")
	for _, col := range s.Columns {
		if col.Name == nam {
			p.error(fmt.Sprintf("duplicate column name: %s", nam))
		}
	}
	col := schema.Column{Name: nam, Type: p.parseColumnType()}

	for {
		var cn string
		if p.optionalReserved("constraint") {
			cn = p.expectIdentifier("expected a constraint name")
		}

		if p.optionalReserved("default") {
			p.parseDefaultValue()
		} else if p.optionalReserved("not") {
			p.expectReserved("null")
		} else if p.optionalReserved("null") {
			// nullable is the default
		} else if p.optionalReserved("primary") {
			p.expectReserved("key")
			col.PrimaryKey = true
		} else if p.optionalReserved("unique") {
			// uniqueness is not tracked
		} else if p.optionalReserved("check") {
			p.expectTokens(LParen)
			p.skipBalanced()
		} else if p.optionalReserved("references") {
			rtn := p.parseTableName()
			fk := schema.ForeignKey{Table: s.Table, Column: nam, RefTable: rtn}
			if p.maybeToken(LParen) {
				fk.RefColumn = p.expectIdentifier("expected a column name")
				p.expectTokens(RParen)
			}
			p.parseOnActions()
			s.ForeignKeys = append(s.ForeignKeys, fk)
		} else if cn != "" {
			p.error("CONSTRAINT name specified without a constraint")
		} else {
			break
		}
	}

	s.Columns = append(s.Columns, col)
}

func (p *Parser) parseColumnType() schema.ColumnType {
	nam := p.expectIdentifier("expected a column type")

	// Two word type names: DOUBLE PRECISION, CHARACTER VARYING.
	if nam == "double" || nam == "character" {
		if p.scan() == Identifier && (p.sctx.Ident == "precision" || p.sctx.Ident == "varying") {
			nam = nam + " " + p.sctx.Ident
		} else {
			p.unscan()
		}
	}

	ct, found := columnTypes[nam]
	if !found {
		ct = schema.UnknownType
	}

	// Size arguments: VARCHAR(255), NUMERIC(10, 2).
	if p.maybeToken(LParen) {
		p.expectTokens(Integer)
		if p.maybeToken(Comma) {
			p.expectTokens(Integer)
		}
		p.expectTokens(RParen)
	}

	// TIMESTAMP WITH TIME ZONE and friends.
	if nam == "time" || nam == "timestamp" {
		if p.scan() == Identifier && (p.sctx.Ident == "with" || p.sctx.Ident == "without") {
			if p.scan() != Identifier || p.sctx.Ident != "time" {
				p.error(fmt.Sprintf("expected time zone, got %s", p.got()))
			}
			if p.scan() != Identifier || p.sctx.Ident != "zone" {
				p.error(fmt.Sprintf("expected time zone, got %s", p.got()))
			}
		} else {
			p.unscan()
		}
	}

	return ct
}

func (p *Parser) parseDefaultValue() {
	t := p.scan()
	if t == Minus {
		t = p.scan()
	}
	switch t {
	case String, Integer, Float:
	case Identifier:
		// A bare constant like CURRENT_TIMESTAMP or a call like now().
		if p.maybeToken(LParen) {
			p.skipBalanced()
		}
	case Reserved:
		if p.sctx.Ident != "null" {
			p.error(fmt.Sprintf("expected a default value, got %s", p.got()))
		}
	default:
		p.error(fmt.Sprintf("expected a default value, got %s", p.got()))
	}
}

func (p *Parser) parseAlterTable() (Stmt, bool) {
	// ALTER TABLE [IF EXISTS] [schema '.'] table ADD [CONSTRAINT name]
	//	FOREIGN KEY ... [',' ADD ...]
	if p.optionalReserved("if") {
		p.expectReserved("exists")
	}
	s := AlterTable{Table: p.parseTableName()}

	for {
		if !p.optionalReserved("add") {
			// Some other ALTER TABLE operation; not a relationship change.
			p.skipStatement()
			return nil, false
		}
		if p.optionalReserved("constraint") {
			p.expectIdentifier("expected a constraint name")
		}
		if !p.optionalReserved("foreign") {
			p.skipStatement()
			return nil, false
		}
		p.expectReserved("key")
		s.ForeignKeys = append(s.ForeignKeys, p.parseForeignKey(s.Table)...)

		if p.maybeToken(Comma) {
			continue
		}
		t := p.scan()
		if t != EndOfStatement && t != EOF {
			p.error(fmt.Sprintf("expected end of statement, got %s", p.got()))
		}
		break
	}

	return &s, true
}
