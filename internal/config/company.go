package config

// Company is printed on the header of generated order PDFs.
type Company struct {
	Name    string `env:"COMPANY_NAME" envDefault:"GBL CORTE E DOBRA"`
	Tagline string `env:"COMPANY_TAGLINE" envDefault:"Corte e Dobra de Chapas Metálicas"`
	Address string `env:"COMPANY_ADDRESS" envDefault:"Rua John Speers nº 1370 - Pq. do Carmo - São Paulo/SP"`
	Phone   string `env:"COMPANY_PHONE" envDefault:"Tel: (11) 2521-2233 | (11) 94884-8301"`
	Email   string `env:"COMPANY_EMAIL" envDefault:"contato@gblcortedobra.com.br"`
}
