package models

// States lists the Brazilian federative units (UF) in display order
var States = []Option{
	{Value: "AC", Label: "Acre"},
	{Value: "AL", Label: "Alagoas"},
	{Value: "AP", Label: "Amapá"},
	{Value: "AM", Label: "Amazonas"},
	{Value: "BA", Label: "Bahia"},
	{Value: "CE", Label: "Ceará"},
	{Value: "DF", Label: "Distrito Federal"},
	{Value: "ES", Label: "Espírito Santo"},
	{Value: "GO", Label: "Goiás"},
	{Value: "MA", Label: "Maranhão"},
	{Value: "MT", Label: "Mato Grosso"},
	{Value: "MS", Label: "Mato Grosso do Sul"},
	{Value: "MG", Label: "Minas Gerais"},
	{Value: "PA", Label: "Pará"},
	{Value: "PB", Label: "Paraíba"},
	{Value: "PR", Label: "Paraná"},
	{Value: "PE", Label: "Pernambuco"},
	{Value: "PI", Label: "Piauí"},
	{Value: "RJ", Label: "Rio de Janeiro"},
	{Value: "RN", Label: "Rio Grande do Norte"},
	{Value: "RS", Label: "Rio Grande do Sul"},
	{Value: "RO", Label: "Rondônia"},
	{Value: "RR", Label: "Roraima"},
	{Value: "SC", Label: "Santa Catarina"},
	{Value: "SP", Label: "São Paulo"},
	{Value: "SE", Label: "Sergipe"},
	{Value: "TO", Label: "Tocantins"},
}

// IsValidState reports whether uf is a known state code
func IsValidState(uf string) bool {
	for _, s := range States {
		if s.Value == uf {
			return true
		}
	}
	return false
}
