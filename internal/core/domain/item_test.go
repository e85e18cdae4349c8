package domain

import "testing"

func TestWorkItemValidate(t *testing.T) {
	tests := []struct {
		name    string
		item    WorkItem
		wantErr bool
	}{
		{"valid", WorkItem{ID: 1, Payload: "data"}, false},
		{"zero id is valid", WorkItem{ID: 0, Payload: "data"}, false},
		{"negative id", WorkItem{ID: -1, Payload: "data"}, true},
		{"empty payload", WorkItem{ID: 1, Payload: ""}, true},
	}

	for _, tt := range tests {
		if err := tt.item.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestOutcomeRecord(t *testing.T) {
	o := Outcome{ItemID: 7, Status: StatusSuccess, Result: "out"}
	rec := o.Record()

	if rec.ID != 7 || rec.Status != "success" || rec.Data != "out" {
		t.Errorf("unexpected record: %+v", rec)
	}
}
