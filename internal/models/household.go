package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Marital status labels as stored (pt-BR, matching the historical dataset).
const (
	MaritalMarried    = "Casado"
	MaritalSeparated  = "Separado"
	MaritalCivilUnion = "União Estável"
	MaritalSingle     = "Solteiro"
	MaritalWidowed    = "Viúvo"
)

// Housing type labels as stored.
const (
	HousingOwned    = "Própria"
	HousingRented   = "Alugada"
	HousingGranted  = "Cedida / Favor"
	HousingInformal = "Invasão"
	HousingOther    = "Outros"
)

// MaritalStatuses lists the accepted marital status labels.
var MaritalStatuses = []string{MaritalMarried, MaritalSeparated, MaritalCivilUnion, MaritalSingle, MaritalWidowed}

// HousingTypes lists the accepted housing type labels.
var HousingTypes = []string{HousingOwned, HousingRented, HousingGranted, HousingInformal, HousingOther}

// Child is one dependent inside a household record. The sequence lives in the
// filhos JSONB column; order is entry order and duplicate names are allowed.
type Child struct {
	Name        string `json:"nome"`
	BirthDate   string `json:"nasc,omitempty"`
	Age         *int   `json:"idade"`
	LivesAtHome bool   `json:"mora"`
	HasDocument bool   `json:"documento"`
	InSchool    bool   `json:"estuda"`
	SchoolGrade string `json:"serie,omitempty"`
}

// ChildList marshals the children sequence to and from the JSONB column.
type ChildList []Child

// Value implements driver.Valuer.
func (c ChildList) Value() (driver.Value, error) {
	if c == nil {
		c = ChildList{}
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *ChildList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = ChildList{}
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("scan filhos: unsupported type %T", src)
	}
}

// Household is the persisted family record in checkin_familia. Guardian fields
// are flattened with pai_/mae_ prefixes for compatibility with the original
// dataset; id and created_at are assigned by the store and never change.
type Household struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	FatherName          string   `db:"pai_nome" json:"pai_nome"`
	FatherBirthDate     *string  `db:"pai_nasc" json:"pai_nasc"`
	FatherAge           *int     `db:"pai_idade" json:"pai_idade"`
	FatherPhone         string   `db:"pai_telefone" json:"pai_telefone"`
	FatherMaritalStatus string   `db:"pai_conjugal" json:"pai_conjugal"`
	FatherLivesAtHome   bool     `db:"pai_mora" json:"pai_mora"`
	FatherAddress       *string  `db:"pai_endereco" json:"pai_endereco"`
	FatherEmployed      bool     `db:"pai_trabalha" json:"pai_trabalha"`
	FatherOccupation    *string  `db:"pai_profissao" json:"pai_profissao"`
	FatherIncome        *float64 `db:"pai_renda" json:"pai_renda"`

	MotherName          string   `db:"mae_nome" json:"mae_nome"`
	MotherBirthDate     *string  `db:"mae_nasc" json:"mae_nasc"`
	MotherAge           *int     `db:"mae_idade" json:"mae_idade"`
	MotherPhone         string   `db:"mae_telefone" json:"mae_telefone"`
	MotherMaritalStatus string   `db:"mae_conjugal" json:"mae_conjugal"`
	MotherLivesAtHome   bool     `db:"mae_mora" json:"mae_mora"`
	MotherAddress       *string  `db:"mae_endereco" json:"mae_endereco"`
	MotherEmployed      bool     `db:"mae_trabalha" json:"mae_trabalha"`
	MotherOccupation    *string  `db:"mae_profissao" json:"mae_profissao"`
	MotherIncome        *float64 `db:"mae_renda" json:"mae_renda"`

	Street       string `db:"rua" json:"rua"`
	Number       string `db:"numero" json:"numero"`
	Complement   string `db:"complemento" json:"complemento"`
	Neighborhood string `db:"bairro" json:"bairro"`
	Landmark     string `db:"referencia" json:"referencia"`
	HousingType  string `db:"tipo_moradia" json:"tipo_moradia"`

	Children      ChildList `db:"filhos" json:"filhos"`
	Notes         string    `db:"observacoes" json:"observacoes"`
	HousePhotoURL string    `db:"foto_casa_url" json:"foto_casa_url"`
}
