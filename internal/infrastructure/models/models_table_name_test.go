package models

import "testing"

func TestTableNames(t *testing.T) {
	if got := (Merchant{}).TableName(); got != "merchants" {
		t.Fatalf("unexpected Merchant table name: %s", got)
	}
	if got := len(AutoMigrateModels()); got != 1 {
		t.Fatalf("unexpected model count: %d", got)
	}
}
