package formatting

import (
	"encoding/json"
	"fmt"
)

// PrettyJSON formats any value as indented JSON. Values that cannot be
// marshalled fall back to their %v representation.
//
// Example:
//
//	data := map[string]interface{}{"name": "stack-contract", "tests": 10}
//	fmt.Println(formatting.PrettyJSON(data))
//	// Output:
//	// {
//	//   "name": "stack-contract",
//	//   "tests": 10
//	// }
func PrettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
