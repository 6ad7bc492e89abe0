package validation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"scan_kiosk/internal/models"
)

const unknownItem = "unknown"

// parsed is the tolerant reading of a response body.
type parsed struct {
	Valid   bool
	Message string
	Order   *models.Order
}

// wire shapes; every leaf is raw so a field of the wrong type degrades to
// its default instead of failing the whole body.
type wireResponse struct {
	Valid   json.RawMessage `json:"valid"`
	Message json.RawMessage `json:"message"`
	Order   json.RawMessage `json:"order"`
}

type wireOrder struct {
	ID            json.RawMessage   `json:"id"`
	Prescriptions []json.RawMessage `json:"prescriptions"`
	Items         []json.RawMessage `json:"items"`
}

type wireItem struct {
	MedicationName json.RawMessage `json:"medication_name"`
	Medication     json.RawMessage `json:"medication"`
	Name           json.RawMessage `json:"name"`
	Quantity       json.RawMessage `json:"quantity"`
	Dosage         json.RawMessage `json:"dosage"`
}

// parseResponse fails only when the body is not a JSON object.
func parseResponse(raw []byte) (parsed, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return parsed{}, errEmptyBody
	}

	if raw[0] != '{' {
		return parsed{}, errNotObject
	}

	var w wireResponse
	if err := json.Unmarshal(raw, &w); err != nil {
		return parsed{}, err
	}

	p := parsed{
		Valid:   flexBool(w.Valid),
		Message: flexString(w.Message),
	}
	if p.Valid {
		p.Order = parseOrder(w.Order)
	}
	return p, nil
}

func parseOrder(raw json.RawMessage) *models.Order {
	var w wireOrder
	if len(raw) == 0 || json.Unmarshal(raw, &w) != nil {
		return nil
	}

	list := w.Prescriptions
	if len(list) == 0 {
		list = w.Items
	}

	o := &models.Order{
		ID:    flexString(w.ID),
		Items: make([]models.OrderItem, 0, len(list)),
	}
	for _, r := range list {
		o.Items = append(o.Items, parseItem(r))
	}
	return o
}

func parseItem(raw json.RawMessage) models.OrderItem {
	item := models.OrderItem{Name: unknownItem, Quantity: 1}

	var w wireItem
	if json.Unmarshal(raw, &w) != nil {
		return item
	}

	if name := itemName(w); name != "" {
		item.Name = name
	}
	if q, ok := flexInt(w.Quantity); ok && q > 0 {
		item.Quantity = q
	}
	item.Dosage = flexString(w.Dosage)
	return item
}

func itemName(w wireItem) string {
	if s := flexString(w.MedicationName); s != "" {
		return s
	}
	if len(w.Medication) > 0 {
		var nested struct {
			Name json.RawMessage `json:"name"`
		}
		if json.Unmarshal(w.Medication, &nested) == nil {
			if s := flexString(nested.Name); s != "" {
				return s
			}
		}
		if s := flexString(w.Medication); s != "" {
			return s
		}
	}
	return flexString(w.Name)
}

// flexString accepts a JSON string or number.
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	return ""
}

// flexInt accepts a JSON integer, a whole float or a numeric string.
func flexInt(raw json.RawMessage) (int, bool) {
	s := flexString(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}

func flexBool(raw json.RawMessage) bool {
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	return false
}
