package models

import "fmt"

// CellObservation is one serving or neighbor cell as reported by the vehicle's modem.
// The first observation of a report is the serving cell by convention.
type CellObservation struct {
	CellID         int    `json:"cid" validate:"gt=0"`
	LAC            int    `json:"lac" validate:"gte=0"`
	MCC            int    `json:"mcc" validate:"gte=1,lte=999"`
	MNC            int    `json:"mnc" validate:"gte=0,lte=999"`
	SignalStrength int    `json:"rssi" validate:"gte=-150,lte=-1"`
	TimingAdvance  *int   `json:"ta,omitempty" validate:"omitempty,gte=0,lte=63"`
	RadioType      string `json:"type,omitempty" validate:"omitempty,oneof=GSM LTE WCDMA UMTS NR CDMA"`
}

// Identity returns the tower key of the observed cell.
func (o CellObservation) Identity() TowerIdentity {
	return TowerIdentity{MCC: o.MCC, MNC: o.MNC, LAC: o.LAC, CellID: o.CellID}
}

// HasTimingAdvance reports whether the modem supplied a GSM timing advance value.
func (o CellObservation) HasTimingAdvance() bool {
	return o.TimingAdvance != nil
}

// TowerIdentity is the composite natural key of a cell tower within an operator's numbering plan.
type TowerIdentity struct {
	MCC    int `json:"mcc" validate:"gte=1,lte=999"`
	MNC    int `json:"mnc" validate:"gte=0,lte=999"`
	LAC    int `json:"lac" validate:"gte=0"`
	CellID int `json:"cid" validate:"gt=0"`
}

// CacheKey is the fast cache key for the tower: tower:{mcc}:{mnc}:{lac}:{cid}
func (id TowerIdentity) CacheKey() string {
	return fmt.Sprintf("tower:%d:%d:%d:%d", id.MCC, id.MNC, id.LAC, id.CellID)
}

func (id TowerIdentity) String() string {
	return fmt.Sprintf("%d-%d-%d-%d", id.MCC, id.MNC, id.LAC, id.CellID)
}
