// internal/domain/survey.go
package domain

// QueryFilter carries the eight optional pivot filters. Every field is
// always bound when the stored procedure runs; an empty string means no
// constraint, never a dropped parameter.
type QueryFilter struct {
	OutletName  string `json:"outletNameInput"`
	FromDate    string `json:"fromDate"`
	ToDate      string `json:"toDate"`
	Brand       string `json:"brand"`
	Location    string `json:"location"`
	State       string `json:"state"`
	DefectType  string `json:"defect_type"`
	BatchNumber string `json:"batchNumber"`
}

// SurveyRecord is one flat row out of the pivot procedure. The store
// guarantees nothing non-empty, so every field is a pointer: nil is
// "absent", a zero value is a real zero.
type SurveyRecord struct {
	State          *string `db:"State" json:"State"`
	Zone           *string `db:"Zone" json:"Zone"`
	OutletName     *string `db:"OutletName" json:"OutletName"`
	Location       *string `db:"Location" json:"Location"`
	SurveyDate     *string `db:"SurveyDate" json:"SurveyDate"`
	Brand          *string `db:"Brand" json:"Brand"`
	SKU            *int64  `db:"sku" json:"sku"`
	Unit           *string `db:"unit" json:"unit"`
	BatchNoPart1   *string `db:"BatchNo" json:"BatchNo"`
	BatchNoPart2   *string `db:"BatchNo2" json:"BatchNo2"`
	RawMfgDate     *string `db:"MfgDate" json:"MfgDate"`
	RawExpDate     *string `db:"ExpDate" json:"ExpDate"`
	SampleChecked  *string `db:"SampleChecked" json:"SampleChecked"`
	VisualDefects  *string `db:"VisualDefects" json:"VisualDefects"`
	DefectCount    *int64  `db:"no_of_defect" json:"no_of_defect"`
	DefectImageRef *string `db:"Defect_image" json:"Defect_image"`
	DefectType     *string `db:"defect_type" json:"defect_type"`
	Remarks        *string `db:"Remarks" json:"Remarks"`
	Address        *string `db:"Address" json:"Address"`
}

// ProcedureDetails describes one stored procedure: its SQL definition and
// declared parameters.
type ProcedureDetails struct {
	Definition string               `json:"procedureDefinition"`
	Parameters []ProcedureParameter `json:"parameters"`
}

type ProcedureParameter struct {
	Name             *string `db:"PARAMETER_NAME" json:"parameterName"`
	DataType         *string `db:"DATA_TYPE" json:"dataType"`
	CharacterMaxLen  *int64  `db:"CHARACTER_MAXIMUM_LENGTH" json:"characterMaximumLength"`
	NumericPrecision *int64  `db:"NUMERIC_PRECISION" json:"numericPrecision"`
	NumericScale     *int64  `db:"NUMERIC_SCALE" json:"numericScale"`
}
