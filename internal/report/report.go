// Package report builds the JSON summary written next to a sample dataset
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vijay-prabhu/billsample/internal/bill"
	"github.com/vijay-prabhu/billsample/internal/progression"
)

// Bill type labels derived from identifier prefixes
const (
	TypeHouseBill            = "House Bills"
	TypeSenateBill           = "Senate Bills"
	TypeJointResolution      = "Joint Resolutions"
	TypeConcurrentResolution = "Concurrent Resolutions"
)

// SampleBill is one selected bill as listed in the report
type SampleBill struct {
	Identifier       string    `json:"identifier"`
	Title            string    `json:"title"`
	ImpactLevel      bill.Tier `json:"impact_level"`
	ProgressionScore int       `json:"progression_score"`
	CosponsorCount   int       `json:"cosponsor_count"`
}

// Report summarizes a sample dataset
type Report struct {
	TotalBills         int                       `json:"total_bills"`
	RequestedTotal     int                       `json:"requested_total"`
	CreationDate       string                    `json:"creation_date"`
	ImpactDistribution map[bill.Tier]int         `json:"impact_distribution"`
	BillTypes          map[string]int            `json:"bill_types"`
	ProgressionStats   map[progression.Stage]int `json:"progression_stats"`
	SampleBills        []SampleBill              `json:"sample_bills"`
}

// Build summarizes the selection. Every tier and stage key is present even
// when its count is zero; bill types only list the types seen.
func Build(selection []*bill.Analyzed, requested int, generatedAt time.Time) *Report {
	r := &Report{
		TotalBills:         len(selection),
		RequestedTotal:     requested,
		CreationDate:       generatedAt.UTC().Format(time.RFC3339),
		ImpactDistribution: make(map[bill.Tier]int),
		BillTypes:          make(map[string]int),
		ProgressionStats:   make(map[progression.Stage]int),
		SampleBills:        make([]SampleBill, 0, len(selection)),
	}
	for _, t := range bill.Tiers() {
		r.ImpactDistribution[t] = 0
	}
	for _, s := range progression.Stages() {
		r.ProgressionStats[s] = 0
	}

	for _, b := range selection {
		r.ImpactDistribution[b.Tier]++
		if bt := BillType(b.Identifier()); bt != "" {
			r.BillTypes[bt]++
		}
		r.ProgressionStats[progression.StageFor(b.ProgressionScore)]++
		r.SampleBills = append(r.SampleBills, SampleBill{
			Identifier:       b.Identifier(),
			Title:            b.Title(),
			ImpactLevel:      b.Tier,
			ProgressionScore: b.ProgressionScore,
			CosponsorCount:   b.CosponsorCount,
		})
	}

	return r
}

// BillType maps an identifier to its bill type, or "" when unknown. Rules
// are checked in order and the first match wins, so "SJRES 1" is counted
// as a Senate bill.
func BillType(identifier string) string {
	switch {
	case strings.HasPrefix(identifier, "HR"):
		return TypeHouseBill
	case strings.HasPrefix(identifier, "S"):
		return TypeSenateBill
	case strings.Contains(identifier, "JRES"):
		return TypeJointResolution
	case strings.Contains(identifier, "CONRES"):
		return TypeConcurrentResolution
	default:
		return ""
	}
}

// Marshal encodes the report as indented JSON without HTML escaping
func (r *Report) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write saves the report to path, creating parent directories
func (r *Report) Write(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Read loads a report written by Write
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &r, nil
}
