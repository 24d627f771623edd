package schemas

// OutlineSchemaPath is the repo-relative location of the outline schema.
const OutlineSchemaPath = "schemas/outline.schema.json"

// ValidateOutline checks a raw outline document against the outline schema.
// When the schema file cannot be found from the working directory the check is
// skipped and ok is false; callers still run struct validation afterwards.
func ValidateOutline(data []byte) (ok bool, err error) {
	path := ResolveSchemaPath(OutlineSchemaPath)
	if path == "" {
		return false, nil
	}
	return true, ValidateJSONBytes(path, data)
}
