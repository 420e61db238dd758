package canon

import (
	"sort"
	"strconv"
	"strings"

	"xdao.co/epcis/cbv"
)

// formatter serializes one ordered field. It returns "" when the field
// contributes nothing.
type formatter func(w *walk, name string, v any, path string, nested bool) (string, error)

// itemFormatter serializes one list element. ok is false when the element
// is dropped.
type itemFormatter func(w *walk, v any, path string) (s string, ok bool, err error)

// dispatch maps entity -> ordered field -> formatter. It is built once from
// the order registry; fields without an override are plain scalars.
var dispatch map[Entity]map[string]formatter

func init() {
	dispatch = make(map[Entity]map[string]formatter, len(orders))
	for e, fields := range orders {
		m := make(map[string]formatter, len(fields))
		for _, f := range fields {
			m[f] = scalarField
		}
		dispatch[e] = m
	}
	set := func(e Entity, field string, f formatter) {
		if _, ok := dispatch[e][field]; !ok {
			panic("canon: " + field + " is not in the canonical order of " + e.String())
		}
		dispatch[e][field] = f
	}

	set(EntityEvent, "type", discriminatorField)
	set(EntityEvent, "errorDeclaration", subEntity(EntityErrorDeclaration))
	for _, f := range []string{"epcList", "inputEPCList", "childEPCs", "outputEPCList"} {
		set(EntityEvent, f, listField(true, scalarItem("epc")))
	}
	for _, f := range []string{"quantityList", "childQuantityList", "inputQuantityList", "outputQuantityList"} {
		set(EntityEvent, f, listField(true, entityItem("quantityElement", EntityQuantityElement)))
	}
	set(EntityEvent, "bizStep", vocabField(cbv.BizStep))
	set(EntityEvent, "disposition", vocabField(cbv.Disposition))
	set(EntityEvent, "persistentDisposition", subEntity(EntityPersistentDisposition))
	set(EntityEvent, "readPoint", subEntity(EntityReadPoint))
	set(EntityEvent, "bizLocation", subEntity(EntityBizLocation))
	set(EntityEvent, "bizTransactionList", listField(true, entityItem("", EntityBizTransaction)))
	set(EntityEvent, "sourceList", listField(true, entityItem("", EntitySource)))
	set(EntityEvent, "destinationList", listField(true, entityItem("", EntityDestination)))
	set(EntityEvent, "sensorElementList", listField(true, entityItem("sensorElement", EntitySensorElement)))
	set(EntityEvent, "ilmd", freeFormField)

	set(EntityErrorDeclaration, "reason", vocabField(cbv.ErrorReason))
	set(EntityErrorDeclaration, "correctiveEventIDs", listField(true, scalarItem("correctiveEventID")))

	set(EntityBizTransaction, "type", vocabField(cbv.BizTransactionType))
	set(EntitySource, "type", vocabField(cbv.SourceDestType))
	set(EntityDestination, "type", vocabField(cbv.SourceDestType))

	set(EntitySensorElement, "sensorMetadata", subEntity(EntitySensorMetadata))
	set(EntitySensorElement, "sensorReport", listField(true, entityItem("", EntitySensorReport)))
	set(EntitySensorReport, "type", vocabField(cbv.MeasurementType))
	set(EntitySensorReport, "exception", vocabField(cbv.SensorAlertType))
	set(EntitySensorReport, "component", vocabField(cbv.Component))

	// set/unset items already carry the field name.
	set(EntityPersistentDisposition, "set", listField(false, vocabItem("set", cbv.Disposition)))
	set(EntityPersistentDisposition, "unset", listField(false, vocabItem("unset", cbv.Disposition)))
}

func scalarField(w *walk, name string, v any, path string, _ bool) (string, error) {
	s, ok := scalarText(v, w.strict)
	if !ok {
		return "", w.shapeError(path, "expected a scalar value")
	}
	return name + "=" + s, nil
}

// discriminatorField emits the event type as eventType= at the top level
// and type= inside a nested node.
func discriminatorField(w *walk, _ string, v any, path string, nested bool) (string, error) {
	s, ok := scalarText(v, w.strict)
	if !ok {
		return "", w.shapeError(path, "expected a scalar event type")
	}
	if nested {
		return "type=" + s, nil
	}
	return "eventType=" + s, nil
}

func vocabField(voc cbv.Vocabulary) formatter {
	return func(w *walk, name string, v any, path string, _ bool) (string, error) {
		s, ok := w.vocabText(voc, v)
		if !ok {
			return "", w.shapeError(path, "expected a vocabulary value")
		}
		return name + "=" + s, nil
	}
}

func subEntity(e Entity) formatter {
	return func(w *walk, name string, v any, path string, _ bool) (string, error) {
		n, ok := asNode(v)
		if !ok {
			return "", w.shapeError(path, "expected an object")
		}
		body, err := w.assemble(n, e, path)
		if err != nil || body == "" {
			return "", err
		}
		return name + body, nil
	}
}

// freeFormField serializes a node without a declared order (ilmd): every
// key goes through the extension-field rule and the results are sorted.
func freeFormField(w *walk, name string, v any, path string, _ bool) (string, error) {
	n, ok := asNode(v)
	if !ok {
		return "", w.shapeError(path, "expected an object")
	}
	parts, err := w.customFields(n, path)
	if err != nil || len(parts) == 0 {
		return "", err
	}
	return name + strings.Join(parts, ""), nil
}

// listField formats every element, sorts the results and prefixes the
// field name once when header is set. Empty lists contribute nothing.
func listField(header bool, item itemFormatter) formatter {
	return func(w *walk, name string, v any, path string, _ bool) (string, error) {
		list, ok := asList(v)
		if !ok {
			return "", w.shapeError(path, "expected a list")
		}
		items := make([]string, 0, len(list))
		for i, el := range list {
			s, ok, err := item(w, el, indexPath(path, i))
			if err != nil {
				return "", err
			}
			if ok {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return "", nil
		}
		sort.Strings(items)
		out := strings.Join(items, "")
		if header {
			out = name + out
		}
		return out, nil
	}
}

func scalarItem(tag string) itemFormatter {
	return func(w *walk, v any, path string) (string, bool, error) {
		if v == nil {
			return "", false, nil
		}
		s, ok := scalarText(v, w.strict)
		if !ok {
			return "", false, w.shapeError(path, "expected a scalar list item")
		}
		return tag + "=" + s, true, nil
	}
}

func vocabItem(tag string, voc cbv.Vocabulary) itemFormatter {
	return func(w *walk, v any, path string) (string, bool, error) {
		if v == nil {
			return "", false, nil
		}
		s, ok := w.vocabText(voc, v)
		if !ok {
			return "", false, w.shapeError(path, "expected a vocabulary list item")
		}
		return tag + "=" + s, true, nil
	}
}

func entityItem(tag string, e Entity) itemFormatter {
	return func(w *walk, v any, path string) (string, bool, error) {
		n, ok := asNode(v)
		if !ok {
			return "", false, w.shapeError(path, "expected an object list item")
		}
		body, err := w.assemble(n, e, path)
		if err != nil || body == "" {
			return "", false, err
		}
		return tag + body, true, nil
	}
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
