package material

import "encoding/json"

// MarshalJSON encodes the material through its dict form.
func (m *Material) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToDict())
}

// UnmarshalJSON decodes a material from its dict form.
func (m *Material) UnmarshalJSON(data []byte) error {
	var dict map[string]interface{}
	if err := json.Unmarshal(data, &dict); err != nil {
		return err
	}
	decoded, err := FromDict(dict)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// MarshalJSON encodes the stack through its dict form.
func (s *Stack) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToDict())
}

// UnmarshalJSON decodes a stack from its dict form. The decoded stack is
// validated before it replaces the receiver.
func (s *Stack) UnmarshalJSON(data []byte) error {
	var dict map[string]interface{}
	if err := json.Unmarshal(data, &dict); err != nil {
		return err
	}
	decoded, err := StackFromDict(dict)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}
