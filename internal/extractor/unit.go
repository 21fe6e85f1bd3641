package extractor

// FieldDecl is one declared field of a type.
type FieldDecl struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// MethodDecl is one declared method. Params holds best-effort parameter
// types; an empty string means the type could not be inferred from source.
type MethodDecl struct {
	Name    string   `json:"name"`
	Params  []string `json:"params"`
	Returns string   `json:"returns,omitempty"`
}

// TypeDecl is the extracted shape of one declared type.
type TypeDecl struct {
	Name    string       `json:"name"`
	Fields  []FieldDecl  `json:"fields"`
	Methods []MethodDecl `json:"methods"`
}

// SourceUnit is the parsed representation of one source file. It is rebuilt
// fresh on every validation run and never persisted.
type SourceUnit struct {
	Language string     `json:"language"`
	Path     string     `json:"path"`
	Types    []TypeDecl `json:"types"`
}

// TypeByName returns the declared type with the given name, or nil.
func (u *SourceUnit) TypeByName(name string) *TypeDecl {
	for i := range u.Types {
		if u.Types[i].Name == name {
			return &u.Types[i]
		}
	}
	return nil
}

func (t *TypeDecl) addMethod(m MethodDecl) {
	t.Methods = append(t.Methods, m)
}

func (t *TypeDecl) addField(f FieldDecl) {
	for _, existing := range t.Fields {
		if existing.Name == f.Name {
			return
		}
	}
	t.Fields = append(t.Fields, f)
}
