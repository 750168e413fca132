package models

// DefaultRealm is the table name used for mapping records when none is configured.
const DefaultRealm = "useraccounts_connect_map"

// Mapping field names accepted by mapping store lookups.
const (
	FieldConnectID   = "ConnectID"
	FieldPrincipalID = "PrincipalID"
)

// MappingRecord links a grid account to the real-world identity of its owner.
//
// At most one record exists per PrincipalID. ConnectID is the external
// federated identifier and may be empty. The table name is the configured
// realm, and MappingRecord has no TableName method.
type MappingRecord struct {
	PrincipalID   string `gorm:"column:principal_id;primaryKey;size:36" json:"principal_id"`
	ConnectID     string `gorm:"column:connect_id;index;size:255" json:"connect_id"`
	RealFirstName string `gorm:"column:real_first_name;size:255" json:"real_first_name"`
	RealLastName  string `gorm:"column:real_last_name;size:255" json:"real_last_name"`
	Institution   string `gorm:"column:institution;size:255" json:"institution"`
}

// Clone returns a copy of the record.
func (m *MappingRecord) Clone() *MappingRecord {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
