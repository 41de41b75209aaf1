package app

// classificationPrompt не меняется между вызовами и не настраивается.
const classificationPrompt = `Analyze this image and classify what type of waste it shows according to the German waste classification system.

German waste categories:
1. Restmüll (Black bin) - General waste that cannot be recycled
2. Papiermüll (Blue bin) - Paper, cardboard, newspapers, magazines
3. Biomüll (Brown bin) - Food waste, garden waste, organic materials
4. Verpackungsmüll (Yellow bin) - Packaging materials, plastics, metals, composite materials
5. Glasmüll (Glass containers) - Glass bottles and jars
6. Sondermüll - Hazardous waste like batteries, chemicals, paint
7. Elektroschrott - Electronic waste, appliances, devices

Return ONLY the category name in German (e.g., "Restmüll", "Papiermüll", etc.) without any additional text or explanation.`

// classificationTemperature низкая, чтобы модель отвечала одним словом
const classificationTemperature float32 = 0.2

// Prompt возвращает инструкцию, которую получает модель
func Prompt() string {
	return classificationPrompt
}
