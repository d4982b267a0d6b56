// Package form holds the working copy of a household check-in while it is being
// filled in or edited. The state mirrors the intake form field-for-field: text
// inputs stay raw strings until submission, when the mapper parses and strips
// them into the persisted record shape.
package form

import "github.com/terra-do-sol/checkin-api/internal/models"

// Party selects which guardian a field update targets.
type Party string

const (
	PartyFather Party = "pai"
	PartyMother Party = "mae"
)

// Guardian is the in-progress form section for one parent. Age and income are
// raw input text; conditional fields (endereco_extra, profissao, renda) keep
// whatever was typed even after their toggle goes off; stripping happens only
// at the submission boundary.
type Guardian struct {
	Name             string `json:"nome"`
	BirthDate        string `json:"nasc"`
	Age              string `json:"idade"`
	Phone            string `json:"telefone"`
	MaritalStatus    string `json:"conjugal"`
	LivesAtHome      bool   `json:"mora"`
	AlternateAddress string `json:"endereco_extra"`
	Employed         bool   `json:"trabalha"`
	Occupation       string `json:"profissao"`
	Income           string `json:"renda"`
}

// Address is the primary residence section.
type Address struct {
	Street       string `json:"rua"`
	Number       string `json:"numero"`
	Complement   string `json:"complemento"`
	Neighborhood string `json:"bairro"`
	Landmark     string `json:"referencia"`
	HousingType  string `json:"tipo_moradia"`
}

// Child is one entry of the dependents section.
type Child struct {
	Name        string `json:"nome"`
	BirthDate   string `json:"nasc"`
	Age         string `json:"idade"`
	LivesAtHome bool   `json:"mora"`
	InSchool    bool   `json:"estuda"`
	SchoolGrade string `json:"serie"`
	HasDocument bool   `json:"documento"`
}

// State is the full working copy. All mutation methods are copy-on-write: they
// return a new State and never touch the receiver, so earlier snapshots remain
// valid for undo or inspection.
type State struct {
	Father   Guardian `json:"pai"`
	Mother   Guardian `json:"mae"`
	Address  Address  `json:"endereco"`
	Children []Child  `json:"filhos"`
	Notes    string   `json:"observacoes"`
}

// New returns a blank check-in with the schema defaults applied.
func New() State {
	return State{
		Father:   defaultGuardian(),
		Mother:   defaultGuardian(),
		Address:  Address{HousingType: models.HousingOwned},
		Children: nil,
		Notes:    "",
	}
}

func defaultGuardian() Guardian {
	return Guardian{
		MaritalStatus: models.MaritalMarried,
		LivesAtHome:   true,
		Employed:      false,
	}
}

func defaultChild() Child {
	return Child{LivesAtHome: true, InSchool: false, HasDocument: false}
}

// SetGuardianField replaces one field of the named guardian. Field keys are the
// form's wire names; unknown keys leave the state unchanged. No validation
// happens here; malformed numbers are caught when the state is mapped.
func (s State) SetGuardianField(p Party, field string, value interface{}) State {
	g := s.guardian(p)
	switch field {
	case "nome":
		g.Name = asString(value)
	case "nasc":
		g.BirthDate = asString(value)
	case "idade":
		g.Age = asString(value)
	case "telefone":
		g.Phone = asString(value)
	case "conjugal":
		g.MaritalStatus = asString(value)
	case "mora":
		g.LivesAtHome = asBool(value)
	case "endereco_extra":
		g.AlternateAddress = asString(value)
	case "trabalha":
		g.Employed = asBool(value)
	case "profissao":
		g.Occupation = asString(value)
	case "renda":
		g.Income = asString(value)
	default:
		return s
	}
	if p == PartyMother {
		s.Mother = g
	} else {
		s.Father = g
	}
	return s
}

// SetAddressField replaces one field of the address section.
func (s State) SetAddressField(field string, value string) State {
	switch field {
	case "rua":
		s.Address.Street = value
	case "numero":
		s.Address.Number = value
	case "complemento":
		s.Address.Complement = value
	case "bairro":
		s.Address.Neighborhood = value
	case "referencia":
		s.Address.Landmark = value
	case "tipo_moradia":
		s.Address.HousingType = value
	}
	return s
}

// SetNotes replaces the free-text notes.
func (s State) SetNotes(value string) State {
	s.Notes = value
	return s
}

// AddChild appends a blank child entry with defaults. There is no upper bound.
func (s State) AddChild() State {
	s.Children = append(cloneChildren(s.Children), defaultChild())
	return s
}

// RemoveChild drops the entry at index. Out-of-range indexes are a silent
// no-op. Remaining entries keep their relative order; only their positional
// index shifts.
func (s State) RemoveChild(index int) State {
	if index < 0 || index >= len(s.Children) {
		return s
	}
	children := cloneChildren(s.Children)
	s.Children = append(children[:index], children[index+1:]...)
	return s
}

// SetChildField replaces one field of the child at index. Out-of-range indexes
// and unknown keys are silent no-ops.
func (s State) SetChildField(index int, field string, value interface{}) State {
	if index < 0 || index >= len(s.Children) {
		return s
	}
	children := cloneChildren(s.Children)
	c := children[index]
	switch field {
	case "nome":
		c.Name = asString(value)
	case "nasc":
		c.BirthDate = asString(value)
	case "idade":
		c.Age = asString(value)
	case "mora":
		c.LivesAtHome = asBool(value)
	case "estuda":
		c.InSchool = asBool(value)
	case "serie":
		c.SchoolGrade = asString(value)
	case "documento":
		c.HasDocument = asBool(value)
	default:
		return s
	}
	children[index] = c
	s.Children = children
	return s
}

func (s State) guardian(p Party) Guardian {
	if p == PartyMother {
		return s.Mother
	}
	return s.Father
}

func cloneChildren(children []Child) []Child {
	if len(children) == 0 {
		return nil
	}
	out := make([]Child, len(children))
	copy(out, children)
	return out
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
