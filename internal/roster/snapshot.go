package roster

import (
	"encoding/json"
	"fmt"
)

// EncodeStudents serializes a collection for the students-collection key.
func EncodeStudents(students []Student) (string, error) {
	if students == nil {
		students = []Student{}
	}
	b, err := json.Marshal(students)
	if err != nil {
		return "", fmt.Errorf("encode students: %w", err)
	}
	return string(b), nil
}

// DecodeStudents parses a stored collection. Records without an id and
// duplicate ids are dropped so the restored collection keeps id uniqueness.
func DecodeStudents(raw string) ([]Student, error) {
	var decoded []Student
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}

	seen := make(map[string]bool, len(decoded))
	out := make([]Student, 0, len(decoded))
	for _, s := range decoded {
		if s.ID == "" || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		out = append(out, s)
	}
	return out, nil
}
