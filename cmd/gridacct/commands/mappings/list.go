package mappings

import (
	"github.com/marmos91/gridaccounts/pkg/models"
)

// MappingList is a list of mapping records for table rendering.
type MappingList []*models.MappingRecord

// Headers implements TableRenderer.
func (ml MappingList) Headers() []string {
	return []string{"PRINCIPAL ID", "CONNECT ID", "REAL NAME", "INSTITUTION"}
}

// Rows implements TableRenderer.
func (ml MappingList) Rows() [][]string {
	rows := make([][]string, 0, len(ml))
	for _, m := range ml {
		rows = append(rows, []string{
			m.PrincipalID,
			orDash(m.ConnectID),
			orDash(m.RealFirstName + " " + m.RealLastName),
			orDash(m.Institution),
		})
	}
	return rows
}

func orDash(s string) string {
	if s == "" || s == " " {
		return "-"
	}
	return s
}
