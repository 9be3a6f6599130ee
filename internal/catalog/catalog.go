package catalog

import (
	pkgerrors "github.com/EdinsonB/Portal-Certificacion-Comercios/pkg/errors"
)

// Item is one checklist entry. Immutable once defined in a scheme; IDs are
// stable and scoped to the scheme, and slice order is display order.
type Item struct {
	ID       int    `json:"id"`
	Prompt   string `json:"texto"`
	Expected string `json:"esperado"`
}

// Scheme is a named certification level with its ordered item list.
type Scheme struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Items       []Item `json:"items"`
}

// Base items shared by every certification level. Higher levels extend the
// list; they never reorder or reword the common prefix.
var baseItems = []Item{
	{ID: 1, Prompt: "Autenticación OAuth 2.0/OpenID Connect implementada", Expected: "El sistema debe autenticar usando OAuth 2.0 o OpenID Connect, siguiendo los estándares de seguridad."},
	{ID: 2, Prompt: "Uso de tokens JWT válidos", Expected: "Las peticiones deben incluir tokens JWT válidos y no expirados."},
	{ID: 3, Prompt: "Comunicación solo por HTTPS", Expected: "Todas las comunicaciones con la API deben realizarse exclusivamente por HTTPS."},
	{ID: 4, Prompt: "Gestión de expiración y refresh de tokens", Expected: "El sistema debe manejar la expiración de tokens y usar refresh tokens cuando corresponda."},
	{ID: 5, Prompt: "Almacenamiento seguro de credenciales", Expected: "Las credenciales y secretos deben almacenarse de forma segura y nunca exponerse públicamente."},
	{ID: 6, Prompt: "Solicita solo los permisos necesarios", Expected: "El sistema debe solicitar únicamente los permisos (scopes) estrictamente necesarios."},
	{ID: 7, Prompt: "Respeta restricciones de acceso", Expected: "El sistema debe respetar las restricciones de acceso según los permisos otorgados."},
	{ID: 8, Prompt: "Manejo de errores y límites de uso", Expected: "El sistema debe manejar correctamente errores y límites de uso (rate limiting)."},
	{ID: 9, Prompt: "Pruebas de integración y seguridad realizadas", Expected: "Se deben realizar pruebas de integración y seguridad con la API."},
	{ID: 10, Prompt: "Documentación revisada y comprendida", Expected: "El equipo debe haber revisado y comprendido la documentación de autenticación y autorización."},
}

var enterpriseItems = append(baseItems[:10:10],
	Item{ID: 11, Prompt: "Implementación de auditoría y logging", Expected: "El sistema debe registrar todas las transacciones y eventos de seguridad relevantes."},
	Item{ID: 12, Prompt: "Configuración de alta disponibilidad", Expected: "El sistema debe estar configurado para garantizar alta disponibilidad y recuperación ante desastres."},
)

var schemes = map[string]Scheme{
	"pse-basico": {
		Key:         "pse-basico",
		Name:        "PSE Básico",
		Description: "Certificación estándar",
		Items:       baseItems[:5:5],
	},
	"pse-avanzado": {
		Key:         "pse-avanzado",
		Name:        "PSE Avanzado",
		Description: "Certificación completa",
		Items:       baseItems[:8:8],
	},
	"pse-empresarial": {
		Key:         "pse-empresarial",
		Name:        "PSE Empresarial",
		Description: "Certificación corporativa",
		Items:       enterpriseItems,
	},
}

// legacyItems is the pre-scheme checklist. Clients created before scheme
// selection existed, or whose stored key no longer resolves, get this list.
var legacyItems = baseItems

// ByKey returns the scheme for key.
//
// Errors: CodeNotFound for unknown keys. Callers that want the legacy
// fallback behavior use ItemsFor instead.
func ByKey(key string) (Scheme, error) {
	if s, ok := schemes[key]; ok {
		return s, nil
	}
	return Scheme{}, pkgerrors.New(pkgerrors.CodeNotFound, "unknown certification scheme")
}

// Known reports whether key names a built-in scheme.
func Known(key string) bool {
	_, ok := schemes[key]
	return ok
}

// ItemsFor resolves the item list for a stored scheme key, falling back to
// the legacy checklist when the key is unknown.
func ItemsFor(key string) []Item {
	if s, ok := schemes[key]; ok {
		return s.Items
	}
	return legacyItems
}

// DisplayName resolves a human name for a stored scheme key; unknown keys
// render as the legacy checklist title.
func DisplayName(key string) string {
	if s, ok := schemes[key]; ok {
		return s.Name
	}
	return "Checklist de Certificación"
}

// All returns every built-in scheme in a stable order.
func All() []Scheme {
	return []Scheme{schemes["pse-basico"], schemes["pse-avanzado"], schemes["pse-empresarial"]}
}
