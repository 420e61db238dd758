package canon

// Entity names a kind of node with its own canonical field order.
type Entity int

const (
	EntityEvent Entity = iota
	EntityErrorDeclaration
	EntityQuantityElement
	EntityReadPoint
	EntityBizLocation
	EntityBizTransaction
	EntitySource
	EntityDestination
	EntitySensorElement
	EntitySensorMetadata
	EntitySensorReport
	EntityPersistentDisposition
)

var entityNames = [...]string{
	EntityEvent:                 "event",
	EntityErrorDeclaration:      "errorDeclaration",
	EntityQuantityElement:       "quantityElement",
	EntityReadPoint:             "readPoint",
	EntityBizLocation:           "bizLocation",
	EntityBizTransaction:        "bizTransaction",
	EntitySource:                "source",
	EntityDestination:           "destination",
	EntitySensorElement:         "sensorElement",
	EntitySensorMetadata:        "sensorMetadata",
	EntitySensorReport:          "sensorReport",
	EntityPersistentDisposition: "persistentDisposition",
}

func (e Entity) String() string {
	if e < 0 || int(e) >= len(entityNames) {
		return "unknown"
	}
	return entityNames[e]
}

// orders is the canonical order registry. Fields are serialized in list
// order; absent fields are skipped.
var orders = map[Entity][]string{
	EntityEvent: {
		"type", "eventTime", "eventTimeZoneOffset", "errorDeclaration",
		"parentID", "epcList", "inputEPCList", "childEPCs", "quantityList",
		"childQuantityList", "inputQuantityList", "outputEPCList",
		"outputQuantityList", "action", "transformationID", "bizStep",
		"disposition", "persistentDisposition", "readPoint", "bizLocation",
		"bizTransactionList", "sourceList", "destinationList",
		"sensorElementList", "ilmd",
	},
	EntityErrorDeclaration: {"declarationTime", "reason", "correctiveEventIDs"},
	EntityQuantityElement:  {"epcClass", "quantity", "uom"},
	EntityReadPoint:        {"id"},
	EntityBizLocation:      {"id"},
	EntityBizTransaction:   {"bizTransaction", "type"},
	EntitySource:           {"source", "type"},
	EntityDestination:      {"destination", "type"},
	EntitySensorElement:    {"sensorMetadata", "sensorReport"},
	EntitySensorMetadata: {
		"time", "startTime", "endTime", "deviceID", "deviceMetadata", "rawData",
		"dataProcessingMethod", "bizRules",
	},
	EntitySensorReport: {
		"type", "exception", "deviceID", "deviceMetadata", "rawData",
		"dataProcessingMethod", "time", "microorganism", "chemicalSubstance",
		"value", "component", "stringValue", "booleanValue", "hexBinaryValue",
		"uriValue", "minValue", "maxValue", "meanValue", "sDev", "percRank",
		"percValue", "uom", "coordinateReferenceSystem",
	},
	EntityPersistentDisposition: {"set", "unset"},
}

// Order returns a copy of the canonical field order of e.
func Order(e Entity) []string {
	return append([]string(nil), orders[e]...)
}

// ignored fields never reach the unordered (extension) pass.
var ignored = map[string]bool{
	"recordTime":        true,
	"eventID":           true,
	"errorDeclaration":  true,
	contextKey:          true,
	"certificationInfo": true,
}

func isOrdered(e Entity, field string) bool {
	_, ok := dispatch[e][field]
	return ok
}
