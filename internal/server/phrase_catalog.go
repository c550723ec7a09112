package server

// Pre-authored phrase library. Read-only content served as-is; the
// only mutable phrase state is the participant's SavedPhrase rows.

type catalogPhrase struct {
	Phrase  string `json:"phrase"`
	Context string `json:"context"`
	Tip     string `json:"tip"`
}

type phraseCategory struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Phrases     []catalogPhrase `json:"phrases"`
}

var phraseCatalogOrder = []string{
	"berrinches", "desobediencia", "hermanos", "pantallas",
	"tareas", "dormir", "agresividad", "tdah",
}

var phraseCatalog = map[string]phraseCategory{
	"berrinches": {
		Title:       "Berrinches y Pataletas",
		Description: "Frases para momentos de descontrol emocional",
		Phrases: []catalogPhrase{
			{
				Phrase:  "Veo que estás muy molesto/a. Es difícil cuando no podemos tener lo que queremos.",
				Context: "Cuando el niño llora por algo que no puede tener",
				Tip:     "Valida la emoción antes de redirigir",
			},
			{
				Phrase:  "Tus sentimientos son muy grandes ahora. Estoy aquí contigo.",
				Context: "Durante el berrinche",
				Tip:     "Presencia tranquila sin intentar 'arreglar'",
			},
			{
				Phrase:  "Cuando estés listo/a para hablar, yo estaré aquí esperándote.",
				Context: "Cuando el niño está gritando",
				Tip:     "Ofrece espacio sin abandonar",
			},
			{
				Phrase:  "Tu cuerpo necesita calmarse. ¿Quieres un abrazo o prefieres espacio?",
				Context: "Ofreciendo opciones de regulación",
				Tip:     "El niño elige cómo regularse",
			},
			{
				Phrase:  "Entiendo que querías ese juguete. No se puede comprar hoy, y está bien que te sientas triste.",
				Context: "En tienda o lugar público",
				Tip:     "Límite claro + validación",
			},
		},
	},
	"desobediencia": {
		Title:       "Desobediencia",
		Description: "Frases para cuando el niño no sigue instrucciones",
		Phrases: []catalogPhrase{
			{
				Phrase:  "Sé que quieres seguir jugando. Es hora de cenar. ¿Prefieres lavarte las manos tú o te ayudo?",
				Context: "Transiciones difíciles",
				Tip:     "Ofrece elección dentro del límite",
			},
			{
				Phrase:  "La pregunta no es si vas a bañarte, es cuándo. ¿Ahora o en 5 minutos?",
				Context: "Cuando se niega a cooperar",
				Tip:     "Límite firme con autonomía limitada",
			},
			{
				Phrase:  "Te escucho diciendo que no quieres. Entiendo. Esto necesita hacerse. ¿Cómo te gustaría hacerlo?",
				Context: "Negativa constante",
				Tip:     "Valida + mantén expectativa + ofrece flexibilidad",
			},
			{
				Phrase:  "Cuando digas 'no' a limpiar, los juguetes descansan en la caja hasta mañana.",
				Context: "Consecuencia lógica",
				Tip:     "Consecuencia relacionada, no castigo",
			},
			{
				Phrase:  "Parece que necesitas ayuda. Vamos a hacerlo juntos.",
				Context: "Cuando hay resistencia",
				Tip:     "Conexión antes que corrección",
			},
		},
	},
	"hermanos": {
		Title:       "Peleas entre Hermanos",
		Description: "Frases para mediar conflictos fraternos",
		Phrases: []catalogPhrase{
			{
				Phrase:  "Veo dos niños que tienen un problema. ¿Quieren ayuda para resolverlo o lo resuelven ustedes?",
				Context: "Inicio de conflicto",
				Tip:     "Fomenta autonomía, ofrece apoyo",
			},
			{
				Phrase:  "Aquí no se golpea. Vamos a separarnos un momento y luego hablamos.",
				Context: "Conflicto físico",
				Tip:     "Seguridad primero, luego enseñanza",
			},
			{
				Phrase:  "Cada uno me cuenta su versión sin interrumpir. Tú primero, luego tú.",
				Context: "Ambos quieren hablar",
				Tip:     "Estructura para escucha",
			},
			{
				Phrase:  "Este juguete es para compartir. Si no pueden compartirlo, lo guardo por ahora.",
				Context: "Disputa por objeto",
				Tip:     "Consecuencia lógica neutral",
			},
			{
				Phrase:  "¿Qué solución se les ocurre que funcione para los dos?",
				Context: "Buscando resolución",
				Tip:     "Desarrolla resolución de problemas",
			},
		},
	},
	"pantallas": {
		Title:       "Uso de Pantallas",
		Description: "Frases para manejar tecnología",
		Phrases: []catalogPhrase{
			{
				Phrase:  "El tiempo de pantalla terminó. ¿Quieres apagar tú o lo hago yo?",
				Context: "Fin del tiempo permitido",
				Tip:     "Elección dentro del límite",
			},
			{
				Phrase:  "Sé que es difícil apagar. El cerebro quiere seguir. Es hora de hacer otra cosa.",
				Context: "Resistencia al cambio",
				Tip:     "Normaliza la dificultad + mantén límite",
			},
			{
				Phrase:  "Las pantallas descansan después de cenar. Esa es la regla de nuestra familia.",
				Context: "Regla clara establecida",
				Tip:     "Reglas consistentes sin negociación",
			},
			{
				Phrase:  "Tu cuerpo necesita moverse. ¿Qué prefieres hacer: saltar o dibujar?",
				Context: "Ofrecer alternativas activas",
				Tip:     "Transición a actividad física",
			},
			{
				Phrase:  "Aprecio cómo apagaste sin quejarte. Eso muestra madurez.",
				Context: "Después de cooperar",
				Tip:     "Refuerza comportamiento positivo",
			},
		},
	},
	"tareas": {
		Title:       "Tareas Escolares",
		Description: "Frases para acompañar en deberes",
		Phrases: []catalogPhrase{
			{
				Phrase:  "Veo que la tarea es difícil. ¿Qué parte te cuesta más? Vamos a revisarla juntos.",
				Context: "Frustración con tarea",
				Tip:     "Identifica obstáculo específico",
			},
			{
				Phrase:  "¿Cuánto tiempo necesitas? ¿30 minutos o 45?",
				Context: "Planificación",
				Tip:     "Estimación y compromiso",
			},
			{
				Phrase:  "Primero terminamos la tarea, luego puedes jugar. ¿Por cuál tarea empiezas?",
				Context: "Secuencia clara",
				Tip:     "Primero/luego + elección",
			},
			{
				Phrase:  "No necesitas hacerlo perfecto. Necesitas hacerlo.",
				Context: "Perfeccionismo",
				Tip:     "Reduce presión",
			},
			{
				Phrase:  "Tómate un descanso de 5 minutos. Cuando regreses, continuamos.",
				Context: "Sobrecarga",
				Tip:     "Pausas estructuradas",
			},
		},
	},
	"dormir": {
		Title:       "Problemas para Dormir",
		Description: "Frases para la hora de dormir",
		Phrases: []catalogPhrase{
			{
				Phrase:  "Tu cuerpo necesita descansar para tener energía mañana. Es hora de dormir.",
				Context: "Se niega a dormir",
				Tip:     "Explicación simple del por qué",
			},
			{
				Phrase:  "Puedo leerte un cuento o cantarte una canción. ¿Cuál prefieres?",
				Context: "Rutina nocturna",
				Tip:     "Elección dentro de la rutina",
			},
			{
				Phrase:  "Sé que no quieres dormir. Es hora de dormir. Estaré cerca si me necesitas.",
				Context: "Resistencia con miedo",
				Tip:     "Valida + límite + disponibilidad",
			},
			{
				Phrase:  "Un vaso de agua, un beso, y luego a dormir. Esas son las reglas de noche.",
				Context: "Peticiones repetidas",
				Tip:     "Reglas claras y consistentes",
			},
			{
				Phrase:  "Tu muñeco también tiene sueño. Vamos a acostarlo contigo.",
				Context: "Usar transición suave",
				Tip:     "Acompañamiento simbólico",
			},
		},
	},
	"agresividad": {
		Title:       "Conductas Agresivas",
		Description: "Frases para agresividad física o verbal",
		Phrases: []catalogPhrase{
			{
				Phrase:  "Aquí no se golpea. Me voy a asegurar de que todos estén seguros.",
				Context: "Golpea a otros",
				Tip:     "Seguridad inmediata sin sermones",
			},
			{
				Phrase:  "Estás muy enojado/a. Golpear no está permitido. ¿Qué necesitas expresar?",
				Context: "Después de golpear",
				Tip:     "Valida emoción + límite + alternativas",
			},
			{
				Phrase:  "Las palabras pueden lastimar. En esta familia nos hablamos con respeto.",
				Context: "Insultos o groserías",
				Tip:     "Límite sobre comunicación",
			},
			{
				Phrase:  "Cuando estés calmado/a podemos hablar. Ahora necesitas un momento para ti.",
				Context: "Descontrol total",
				Tip:     "Tiempo fuera positivo",
			},
			{
				Phrase:  "Tu cuerpo tiene mucha energía. Golpeemos esta almohada, no a las personas.",
				Context: "Canalizar agresión",
				Tip:     "Alternativa segura de expresión",
			},
		},
	},
	"tdah": {
		Title:       "Adaptaciones para TDAH",
		Description: "Frases adaptadas para niños con TDAH",
		Phrases: []catalogPhrase{
			{
				Phrase:  "Vamos a hacer esto en pasos pequeños. Primero, ¿qué necesitamos hacer?",
				Context: "Instrucciones complejas",
				Tip:     "Dividir en pasos",
			},
			{
				Phrase:  "Te voy a poner un temporizador. Cuando suene, revisamos qué lograste.",
				Context: "Mantener enfoque",
				Tip:     "Ayudas externas de tiempo",
			},
			{
				Phrase:  "Parece que tu cuerpo necesita moverse. Camina dos vueltas y regresa.",
				Context: "Inquietud",
				Tip:     "Canalizar necesidad de movimiento",
			},
			{
				Phrase:  "Te voy a recordar en 5 minutos. ¿Está bien?",
				Context: "Olvidos frecuentes",
				Tip:     "Recordatorios externos",
			},
			{
				Phrase:  "¿Qué te ayudaría a concentrarte? ¿Música, silencio, o estar cerca de mí?",
				Context: "Personalizar ambiente",
				Tip:     "El niño conoce sus necesidades",
			},
		},
	},
}
