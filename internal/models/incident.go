package models

import "time"

// DefaultFormVersion es la versión del formulario cuando el cliente no la informa.
const DefaultFormVersion = "1.0.0"

type Persona struct {
	NombreCompleto  string `json:"nombre_completo" bson:"nombre_completo" validate:"required,min=1"`
	RUT             string `json:"rut" bson:"rut" validate:"required,rut"`
	FechaNacimiento string `json:"fecha_nacimiento,omitempty" bson:"fecha_nacimiento,omitempty"`
	Direccion       string `json:"direccion,omitempty" bson:"direccion,omitempty"`
	Comuna          string `json:"comuna,omitempty" bson:"comuna,omitempty"`
	Telefono        string `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Email           string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
}

type Vehiculo struct {
	Marca       string `json:"marca" bson:"marca" validate:"required,min=1"`
	Modelo      string `json:"modelo" bson:"modelo" validate:"required,min=1"`
	Anio        *int   `json:"anio,omitempty" bson:"anio,omitempty"`
	Patente     string `json:"patente" bson:"patente" validate:"required,min=3"`
	NumeroMotor string `json:"numero_motor,omitempty" bson:"numero_motor,omitempty"`
	VINChasis   string `json:"vin_chasis,omitempty" bson:"vin_chasis,omitempty"`
}

// Participant es un vehículo involucrado: conductor, vehículo y aseguradora.
type Participant struct {
	Persona     *Persona  `json:"persona" bson:"persona" validate:"required"`
	Vehiculo    *Vehiculo `json:"vehiculo" bson:"vehiculo" validate:"required"`
	Aseguradora string    `json:"aseguradora,omitempty" bson:"aseguradora,omitempty"`
}

type Metadata struct {
	CreatedAt *time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	Version   string     `json:"version" bson:"version"`
	Origen    string     `json:"origen,omitempty" bson:"origen,omitempty"`
}

type Antecedentes struct {
	FechaAccidente             string  `json:"fecha_accidente,omitempty" bson:"fecha_accidente,omitempty"`
	HoraAccidente              string  `json:"hora_accidente,omitempty" bson:"hora_accidente,omitempty"`
	LugarAccidente             string  `json:"lugar_accidente,omitempty" bson:"lugar_accidente,omitempty"`
	Comuna                     string  `json:"comuna,omitempty" bson:"comuna,omitempty"`
	ConcurrioCarabineros       TriBool `json:"concurrio_carabineros" bson:"concurrio_carabineros"`
	SeTomoAlcoholemia          TriBool `json:"se_tomo_alcoholemia" bson:"se_tomo_alcoholemia"`
	Lesionados                 TriBool `json:"lesionados" bson:"lesionados"`
	DanosMateriales            TriBool `json:"danos_materiales" bson:"danos_materiales"`
	NumeroVehiculos            *int    `json:"numero_vehiculos_involucrados,omitempty" bson:"numero_vehiculos_involucrados,omitempty" validate:"omitempty,min=0"`
	VehiculosDistintosDeAyB    TriBool `json:"vehiculos_distintos_de_a_y_b" bson:"vehiculos_distintos_de_a_y_b"`
	ObjetosDistintosAlVehiculo TriBool `json:"objetos_distintos_al_vehiculo" bson:"objetos_distintos_al_vehiculo"`
}

type Declaracion struct {
	EntendidoProcedimiento  TriBool `json:"entendido_procedimiento" bson:"entendido_procedimiento"`
	AceptaDeclaracionJurada TriBool `json:"acepta_declaracion_jurada" bson:"acepta_declaracion_jurada"`
	LugarFirma              string  `json:"lugar_firma,omitempty" bson:"lugar_firma,omitempty"`
	FechaFirma              string  `json:"fecha_firma,omitempty" bson:"fecha_firma,omitempty"`
}

// Firmas y Adjuntos guardan referencias opacas (URLs o claves), no el contenido.
type Firmas struct {
	VehiculoA string `json:"vehiculo_a,omitempty" bson:"vehiculo_a,omitempty"`
	VehiculoB string `json:"vehiculo_b,omitempty" bson:"vehiculo_b,omitempty"`
}

type Adjuntos struct {
	Fotos   []string `json:"fotos" bson:"fotos"`
	Croquis string   `json:"croquis,omitempty" bson:"croquis,omitempty"`
	Otros   []string `json:"otros" bson:"otros"`
}

// IncidentDraft es la declaración validada, todavía sin persistir.
type IncidentDraft struct {
	FormID       string        `json:"formId" bson:"formId" gorm:"column:form_id;not null" validate:"required,min=1"`
	Metadata     *Metadata     `json:"metadata" bson:"metadata" gorm:"column:metadata;type:jsonb;serializer:json" validate:"required"`
	Antecedentes *Antecedentes `json:"antecedentes_siniestro" bson:"antecedentes_siniestro" gorm:"column:antecedentes_siniestro;type:jsonb;serializer:json" validate:"required"`
	VehiculoA    *Participant  `json:"vehiculo_a" bson:"vehiculo_a" gorm:"column:vehiculo_a;type:jsonb;serializer:json" validate:"required"`
	VehiculosB   []Participant `json:"vehiculos_b" bson:"vehiculos_b" gorm:"column:vehiculos_b;type:jsonb;serializer:json" validate:"dive"`
	Declaracion  *Declaracion  `json:"declaracion,omitempty" bson:"declaracion,omitempty" gorm:"column:declaracion;type:jsonb;serializer:json"`
	Firmas       *Firmas       `json:"firmas,omitempty" bson:"firmas,omitempty" gorm:"column:firmas;type:jsonb;serializer:json"`
	Adjuntos     *Adjuntos     `json:"adjuntos,omitempty" bson:"adjuntos,omitempty" gorm:"column:adjuntos;type:jsonb;serializer:json"`
}

// ApplyDefaults completa los valores por defecto del formulario tras validar.
func (d *IncidentDraft) ApplyDefaults() {
	if d.Metadata != nil && d.Metadata.Version == "" {
		d.Metadata.Version = DefaultFormVersion
	}
	if d.VehiculosB == nil {
		d.VehiculosB = []Participant{}
	}
	if d.Adjuntos != nil {
		if d.Adjuntos.Fotos == nil {
			d.Adjuntos.Fotos = []string{}
		}
		if d.Adjuntos.Otros == nil {
			d.Adjuntos.Otros = []string{}
		}
	}
}

// Incident es la declaración persistida.
type Incident struct {
	ID            string `json:"_id" bson:"_id" gorm:"primaryKey;size:36"`
	IncidentDraft `bson:",inline" gorm:"embedded"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}
