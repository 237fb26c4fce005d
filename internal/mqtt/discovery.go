// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package mqtt

import (
	"encoding/json"
	"fmt"
)

// discoveryPrefix is Home Assistant's default MQTT discovery root.
const discoveryPrefix = "homeassistant"

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model,omitempty"`
}

type discoveryPayload struct {
	Name          string          `json:"name"`
	UniqueID      string          `json:"unique_id"`
	StateTopic    string          `json:"state_topic"`
	ValueTemplate string          `json:"value_template"`
	Unit          string          `json:"unit_of_measurement,omitempty"`
	Icon          string          `json:"icon,omitempty"`
	DeviceClass   string          `json:"device_class,omitempty"`
	StateClass    string          `json:"state_class,omitempty"`
	Device        discoveryDevice `json:"device"`
}

// AnnounceSensors publishes a retained Home Assistant discovery config
// for each parameter, pointing the sensor at the shared values topic.
// model names the meter family for the device record.
func (p *Publisher) AnnounceSensors(model string, params []string) error {
	device := discoveryDevice{
		Identifiers:  []string{p.cfg.HANodeID},
		Name:         "Kamstrup Multical",
		Manufacturer: "Kamstrup",
		Model:        "Multical " + model,
	}
	stateTopic := p.cfg.Topic + "/values"

	for _, param := range params {
		meta, ok := paramMeta[param]
		if !ok {
			meta = ParamMeta{Name: param}
		}

		payload := discoveryPayload{
			Name:          meta.Name,
			UniqueID:      fmt.Sprintf("%s_%s", p.cfg.HANodeID, param),
			StateTopic:    stateTopic,
			ValueTemplate: fmt.Sprintf("{{ value_json.%s }}", param),
			Unit:          meta.Unit,
			Icon:          meta.Icon,
			DeviceClass:   meta.DeviceClass,
			StateClass:    meta.StateClass,
			Device:        device,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("mqtt: marshal discovery for %s: %w", param, err)
		}

		topic := fmt.Sprintf("%s/sensor/%s/%s/config", discoveryPrefix, p.cfg.HANodeID, param)
		// Discovery configs are always retained so Home Assistant finds
		// them after a restart.
		if err := p.publishRaw(topic, p.cfg.QoS, true, data); err != nil {
			return err
		}
		p.log.Info().Str("param", param).Msg("announced sensor to Home Assistant")
	}

	return nil
}
