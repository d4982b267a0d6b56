package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/terra-do-sol/checkin-api/internal/models"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
)

// ToRecord maps a working copy into the persisted record shape. This is the
// single place where conditional fields are stripped:
//
//   - a guardian's alternate address is persisted only while mora is false;
//   - occupation and income are persisted only while trabalha is true;
//   - age and income text is parsed, and a parse failure fails the whole
//     submission with an error naming the field path.
//
// Child entries pass through verbatim, including serie when estuda is false;
// the admin UI hides the field but the entered value is kept. Notes and
// tipo_moradia are stored as entered, tipo_moradia always as its own column.
func ToRecord(s State) (*models.Household, error) {
	rec := &models.Household{
		Street:       s.Address.Street,
		Number:       s.Address.Number,
		Complement:   s.Address.Complement,
		Neighborhood: s.Address.Neighborhood,
		Landmark:     s.Address.Landmark,
		HousingType:  defaultString(s.Address.HousingType, models.HousingOwned),
		Notes:        s.Notes,
	}

	if err := mapGuardian(s.Father, string(PartyFather), guardianTarget{
		name: &rec.FatherName, birthDate: &rec.FatherBirthDate, age: &rec.FatherAge,
		phone: &rec.FatherPhone, maritalStatus: &rec.FatherMaritalStatus,
		livesAtHome: &rec.FatherLivesAtHome, address: &rec.FatherAddress,
		employed: &rec.FatherEmployed, occupation: &rec.FatherOccupation, income: &rec.FatherIncome,
	}); err != nil {
		return nil, err
	}
	if err := mapGuardian(s.Mother, string(PartyMother), guardianTarget{
		name: &rec.MotherName, birthDate: &rec.MotherBirthDate, age: &rec.MotherAge,
		phone: &rec.MotherPhone, maritalStatus: &rec.MotherMaritalStatus,
		livesAtHome: &rec.MotherLivesAtHome, address: &rec.MotherAddress,
		employed: &rec.MotherEmployed, occupation: &rec.MotherOccupation, income: &rec.MotherIncome,
	}); err != nil {
		return nil, err
	}

	children := make(models.ChildList, 0, len(s.Children))
	for i, c := range s.Children {
		age, err := parseAge(c.Age, fmt.Sprintf("filhos[%d].idade", i))
		if err != nil {
			return nil, err
		}
		children = append(children, models.Child{
			Name:        c.Name,
			BirthDate:   c.BirthDate,
			Age:         age,
			LivesAtHome: c.LivesAtHome,
			HasDocument: c.HasDocument,
			InSchool:    c.InSchool,
			SchoolGrade: c.SchoolGrade,
		})
	}
	rec.Children = children

	return rec, nil
}

// FromRecord hydrates a working copy from a persisted record for editing.
// Null persisted fields come back as schema defaults, and fields that were
// stripped on save (occupation/income while unemployed, alternate address
// while resident) hydrate empty regardless of any stale payload content.
// Child order is preserved positionally.
func FromRecord(rec *models.Household) State {
	s := State{
		Father: hydrateGuardian(rec.FatherName, rec.FatherBirthDate, rec.FatherAge, rec.FatherPhone,
			rec.FatherMaritalStatus, rec.FatherLivesAtHome, rec.FatherAddress,
			rec.FatherEmployed, rec.FatherOccupation, rec.FatherIncome),
		Mother: hydrateGuardian(rec.MotherName, rec.MotherBirthDate, rec.MotherAge, rec.MotherPhone,
			rec.MotherMaritalStatus, rec.MotherLivesAtHome, rec.MotherAddress,
			rec.MotherEmployed, rec.MotherOccupation, rec.MotherIncome),
		Address: Address{
			Street:       rec.Street,
			Number:       rec.Number,
			Complement:   rec.Complement,
			Neighborhood: rec.Neighborhood,
			Landmark:     rec.Landmark,
			HousingType:  defaultString(rec.HousingType, models.HousingOwned),
		},
		Notes: rec.Notes,
	}

	if len(rec.Children) > 0 {
		s.Children = make([]Child, 0, len(rec.Children))
		for _, c := range rec.Children {
			age := ""
			if c.Age != nil {
				age = strconv.Itoa(*c.Age)
			}
			s.Children = append(s.Children, Child{
				Name:        c.Name,
				BirthDate:   c.BirthDate,
				Age:         age,
				LivesAtHome: c.LivesAtHome,
				InSchool:    c.InSchool,
				SchoolGrade: c.SchoolGrade,
				HasDocument: c.HasDocument,
			})
		}
	}

	return s
}

// guardianTarget points at one guardian's slice of the flattened record.
type guardianTarget struct {
	name          *string
	birthDate     **string
	age           **int
	phone         *string
	maritalStatus *string
	livesAtHome   *bool
	address       **string
	employed      *bool
	occupation    **string
	income        **float64
}

func mapGuardian(g Guardian, path string, t guardianTarget) error {
	*t.name = g.Name
	*t.birthDate = stringOrNil(g.BirthDate)
	*t.phone = g.Phone
	*t.maritalStatus = defaultString(g.MaritalStatus, models.MaritalMarried)
	*t.livesAtHome = g.LivesAtHome
	*t.employed = g.Employed

	age, err := parseAge(g.Age, path+".idade")
	if err != nil {
		return err
	}
	*t.age = age

	if g.LivesAtHome {
		*t.address = nil
	} else {
		addr := g.AlternateAddress
		*t.address = &addr
	}

	if !g.Employed {
		*t.occupation = nil
		*t.income = nil
		return nil
	}

	occupation := g.Occupation
	*t.occupation = &occupation

	income, err := parseIncome(g.Income, path+".renda")
	if err != nil {
		return err
	}
	*t.income = income

	return nil
}

func hydrateGuardian(name string, birthDate *string, age *int, phone, maritalStatus string,
	livesAtHome bool, address *string, employed bool, occupation *string, income *float64) Guardian {
	g := Guardian{
		Name:          name,
		Phone:         phone,
		MaritalStatus: defaultString(maritalStatus, models.MaritalMarried),
		LivesAtHome:   livesAtHome,
		Employed:      employed,
	}
	if birthDate != nil {
		g.BirthDate = *birthDate
	}
	if age != nil {
		g.Age = strconv.Itoa(*age)
	}
	if !livesAtHome && address != nil {
		g.AlternateAddress = *address
	}
	if employed {
		if occupation != nil {
			g.Occupation = *occupation
		}
		if income != nil {
			g.Income = strconv.FormatFloat(*income, 'f', -1, 64)
		}
	}
	return g
}

func parseAge(raw, path string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, appErrors.FieldValidation(path, "must be a whole number")
	}
	if n < 0 {
		return nil, appErrors.FieldValidation(path, "must not be negative")
	}
	return &n, nil
}

func parseIncome(raw, path string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return nil, appErrors.FieldValidation(path, "must be a valid amount")
	}
	if v < 0 {
		return nil, appErrors.FieldValidation(path, "must not be negative")
	}
	return &v, nil
}

func stringOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
